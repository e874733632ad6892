package models

import "time"

// Pairing links one student to at most one volunteer for an ongoing
// engagement. A student has at most one active pairing at a time, enforced
// by a partial unique index. If the volunteer is removed the pairing
// survives with a cleared reference; if the student is removed the pairing
// is removed with them.
type Pairing struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"studentId"`
	VolunteerID *int64     `json:"volunteerId,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Active      bool       `json:"active"`
	Notes       string     `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations (populated when needed)
	Student   *Student   `json:"student,omitempty"`
	Volunteer *Volunteer `json:"volunteer,omitempty"`
}
