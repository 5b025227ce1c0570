package domain

import "time"

// User represents a registered InterviewPro account.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	City  string `json:"city,omitempty"`
}

// Profile is the extended profile row attached to a user.
type Profile struct {
	UserID    int       `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	PersonaID *int      `json:"persona_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Me is the authenticated profile view returned by /api/v1/me.
type Me struct {
	User          User     `json:"user"`
	Profile       *Profile `json:"profile,omitempty"`
	WalletBalance int      `json:"wallet_balance"`
}

// AuthToken is the bearer token issued by login/register.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
