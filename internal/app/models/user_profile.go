package models

import "time"

// UserProfile is a login account, optionally mirroring a volunteer record so
// that a volunteer can sign in and act as co-manager for students and other
// volunteers.
type UserProfile struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	VolunteerID  *int64    `json:"volunteerId,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`

	// Relations (populated when needed)
	Volunteer *Volunteer `json:"volunteer,omitempty"`
}
