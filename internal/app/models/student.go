package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Student defines a supported pupil, based on the 'students' table.
// Latitude and longitude are NUMERIC to keep the precision delivered by the
// geocoder; both are set or both are NULL.
type Student struct {
	ID              int64  `json:"id"`
	LastName        string `json:"lastName"`
	FirstName       string `json:"firstName"`
	Phone           string `json:"phone,omitempty"`
	ParentLastName  string `json:"parentLastName,omitempty"`
	ParentFirstName string `json:"parentFirstName,omitempty"`
	ParentPhone     string `json:"parentPhone,omitempty"`
	ParentEmail     string `json:"parentEmail,omitempty"`

	GradeLevel string `json:"gradeLevel,omitempty"`
	School     string `json:"school,omitempty"`

	StreetNumber      string         `json:"streetNumber,omitempty"`
	StreetName        string         `json:"streetName,omitempty"`
	AddressComplement string         `json:"addressComplement,omitempty"`
	PostalCode        string         `json:"postalCode,omitempty"`
	City              string         `json:"city,omitempty"`
	District          string         `json:"district,omitempty"`
	Latitude          pgtype.Numeric `json:"latitude"`
	Longitude         pgtype.Numeric `json:"longitude"`

	Status      StudentStatus `json:"status"`
	EntryStatus EntryStatus   `json:"entryStatus"`
	Notes       string        `json:"notes,omitempty"`
	CoManagerID *int64        `json:"coManagerId,omitempty"`
	LastVisitAt *time.Time    `json:"lastVisitAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations (populated when needed)
	Subjects []*Subject `json:"subjects,omitempty"`
}

// FullName returns "FirstName LastName" for display and logs.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// IsGeolocated reports whether the student has GPS coordinates.
func (s *Student) IsGeolocated() bool {
	return s.Latitude.Valid && s.Longitude.Valid
}
