package domain

import "time"

// Role is an entry in the job role catalog.
type Role struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"is_active"`
}

// RoleSelection is a role the user has picked, joined with its catalog entry.
type RoleSelection struct {
	ID              int       `json:"id"`
	RoleID          int       `json:"role_id"`
	RoleTitle       string    `json:"role_title"`
	RoleDescription string    `json:"role_description"`
	RoleTags        []string  `json:"role_tags"`
	CreatedAt       time.Time `json:"created_at"`
}
