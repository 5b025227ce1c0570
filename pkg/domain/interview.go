package domain

import "time"

// Interview is a started AI interview session.
type Interview struct {
	ID          int       `json:"id"`
	RoleID      int       `json:"role_id"`
	CVID        *int      `json:"cv_id,omitempty"`
	Status      string    `json:"status"` // pending|in_progress|done|failed
	CreditsUsed int       `json:"credits_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// Screening is a CV screening run.
type Screening struct {
	ID          int       `json:"id"`
	CVID        int       `json:"cv_id"`
	Status      string    `json:"status"` // pending|done|failed
	CreditsUsed int       `json:"credits_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// Persona is the computed candidate persona.
type Persona struct {
	ID        int            `json:"id"`
	UserID    int            `json:"user_id"`
	Summary   map[string]any `json:"summary,omitempty"`
	Skills    []string       `json:"skills,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}
