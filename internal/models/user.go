// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDisplayName is shown for campers without a profile row.
const DefaultDisplayName = "Camper"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleCamper Role = "camper"
	RoleAdmin  Role = "admin"
)

// User is an account that can sign in. Public identity lives in Profile.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Needs2FASetup returns true if the user has not completed 2FA enrollment.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}

// Profile is the public face of a camper: the name shown in chat, the
// gallery, and the leaderboard.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns the profile name, or the default for a nil or
// unnamed profile.
func (p *Profile) DisplayName() string {
	if p == nil || p.Name == "" {
		return DefaultDisplayName
	}
	return p.Name
}
