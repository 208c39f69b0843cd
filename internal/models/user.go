package models

import "time"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultCredits is the credit balance granted to new accounts.
const DefaultCredits = 30

// User represents an account row in the users table
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Argon2id hash, never exposed in API
	Role         string     `json:"role"`
	Credits      int        `json:"credits"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// UserResponse is the API response for user data
type UserResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Credits     int        `json:"credits"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Credits:     u.Credits,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UpdateProfileRequest is the request body for profile updates
type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty"`
}

// AdminUpdateUserRequest is the request body for admin user mutation.
// Only the provided fields are changed.
type AdminUpdateUserRequest struct {
	Role     *string `json:"role,omitempty"`
	Credits  *int    `json:"credits,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
