package models

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Volunteer defines a tutor of the association, based on the 'volunteers'
// table. Contact origin and date are only filled for prospective candidates.
type Volunteer struct {
	ID         int64  `json:"id"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Profession string `json:"profession,omitempty"`

	StreetNumber string         `json:"streetNumber,omitempty"`
	StreetName   string         `json:"streetName,omitempty"`
	PostalCode   string         `json:"postalCode,omitempty"`
	City         string         `json:"city,omitempty"`
	District     string         `json:"district,omitempty"`
	GeoZone      string         `json:"geoZone,omitempty"`
	Transport    string         `json:"transport,omitempty"`
	Latitude     pgtype.Numeric `json:"latitude"`
	Longitude    pgtype.Numeric `json:"longitude"`

	Status        VolunteerStatus `json:"status"`
	IsCoordinator bool            `json:"isCoordinator"`

	// Levels the volunteer can tutor.
	PrimaryLevel bool `json:"primaryLevel"`
	MiddleLevel  bool `json:"middleLevel"`
	HighLevel    bool `json:"highLevel"`

	// Administrative paperwork.
	PhotoProvided      bool   `json:"photoProvided"`
	ChatGroupAdded     bool   `json:"chatGroupAdded"`
	FileComplete       bool   `json:"fileComplete"`
	OutlookAdded       bool   `json:"outlookAdded"`
	ExtranetAdded      bool   `json:"extranetAdded"`
	WelcomeMeetingDone bool   `json:"welcomeMeetingDone"`
	BackgroundCheck    string `json:"backgroundCheck,omitempty"`

	// Candidate-only recruitment fields, free-format by choice.
	ContactOrigin string `json:"contactOrigin,omitempty"`
	ContactDate   string `json:"contactDate,omitempty"`
	Availability  string `json:"availability,omitempty"`

	Notes       string `json:"notes,omitempty"`
	ExtraNotes  string `json:"extraNotes,omitempty"`
	CoManagerID *int64 `json:"coManagerId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations (populated when needed)
	Subjects []*Subject `json:"subjects,omitempty"`
}

// FullName returns "FirstName LastName" for display and logs.
func (v *Volunteer) FullName() string {
	return v.FirstName + " " + v.LastName
}

// IsGeolocated reports whether the volunteer has GPS coordinates.
func (v *Volunteer) IsGeolocated() bool {
	return v.Latitude.Valid && v.Longitude.Valid
}

// FullAddress returns the formatted postal address, skipping empty parts.
func (v *Volunteer) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{strings.TrimSpace(v.StreetNumber + " " + v.StreetName), v.PostalCode, v.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// MissingPaperwork returns the administrative items still to collect.
func (v *Volunteer) MissingPaperwork() []string {
	var missing []string
	if !v.FileComplete {
		missing = append(missing, "administrative file")
	}
	if v.BackgroundCheck == "" {
		missing = append(missing, "criminal record extract")
	}
	if !v.WelcomeMeetingDone {
		missing = append(missing, "welcome meeting")
	}
	if !v.PhotoProvided {
		missing = append(missing, "photo")
	}
	return missing
}
