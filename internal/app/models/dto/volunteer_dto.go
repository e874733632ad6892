package dto

import (
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

// CreateVolunteerRequest represents the payload to register a new volunteer
type CreateVolunteerRequest struct {
	LastName   string `json:"lastName" binding:"required"`
	FirstName  string `json:"firstName" binding:"required"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Profession string `json:"profession"`

	StreetNumber string `json:"streetNumber"`
	StreetName   string `json:"streetName"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
	GeoZone      string `json:"geoZone"`
	Transport    string `json:"transport"`

	Status        string `json:"status"`
	IsCoordinator bool   `json:"isCoordinator"`

	PrimaryLevel bool `json:"primaryLevel"`
	MiddleLevel  bool `json:"middleLevel"`
	HighLevel    bool `json:"highLevel"`

	PhotoProvided      bool   `json:"photoProvided"`
	ChatGroupAdded     bool   `json:"chatGroupAdded"`
	FileComplete       bool   `json:"fileComplete"`
	OutlookAdded       bool   `json:"outlookAdded"`
	ExtranetAdded      bool   `json:"extranetAdded"`
	WelcomeMeetingDone bool   `json:"welcomeMeetingDone"`
	BackgroundCheck    string `json:"backgroundCheck"`

	ContactOrigin string `json:"contactOrigin"`
	ContactDate   string `json:"contactDate"`
	Availability  string `json:"availability"`

	Notes       string  `json:"notes"`
	ExtraNotes  string  `json:"extraNotes"`
	CoManagerID *int64  `json:"coManagerId"`
	SubjectIDs  []int64 `json:"subjectIds"`
}

// UpdateVolunteerRequest represents a full update of a volunteer record
type UpdateVolunteerRequest = CreateVolunteerRequest

// VolunteerResponse represents a volunteer as returned by the API
type VolunteerResponse struct {
	ID         int64  `json:"id"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Profession string `json:"profession"`

	StreetNumber string   `json:"streetNumber"`
	StreetName   string   `json:"streetName"`
	PostalCode   string   `json:"postalCode"`
	City         string   `json:"city"`
	District     string   `json:"district"`
	GeoZone      string   `json:"geoZone"`
	Transport    string   `json:"transport"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`

	Status        string `json:"status"`
	IsCoordinator bool   `json:"isCoordinator"`

	PrimaryLevel bool `json:"primaryLevel"`
	MiddleLevel  bool `json:"middleLevel"`
	HighLevel    bool `json:"highLevel"`

	PhotoProvided      bool   `json:"photoProvided"`
	ChatGroupAdded     bool   `json:"chatGroupAdded"`
	FileComplete       bool   `json:"fileComplete"`
	OutlookAdded       bool   `json:"outlookAdded"`
	ExtranetAdded      bool   `json:"extranetAdded"`
	WelcomeMeetingDone bool   `json:"welcomeMeetingDone"`
	BackgroundCheck    string `json:"backgroundCheck"`

	ContactOrigin string `json:"contactOrigin"`
	ContactDate   string `json:"contactDate"`
	Availability  string `json:"availability"`

	Notes       string            `json:"notes"`
	ExtraNotes  string            `json:"extraNotes"`
	CoManagerID *int64            `json:"coManagerId,omitempty"`
	Subjects    []SubjectResponse `json:"subjects"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewVolunteerResponse maps a volunteer model to its API representation
func NewVolunteerResponse(v *models.Volunteer) VolunteerResponse {
	return VolunteerResponse{
		ID:                 v.ID,
		LastName:           v.LastName,
		FirstName:          v.FirstName,
		Email:              v.Email,
		Phone:              v.Phone,
		Profession:         v.Profession,
		StreetNumber:       v.StreetNumber,
		StreetName:         v.StreetName,
		PostalCode:         v.PostalCode,
		City:               v.City,
		District:           v.District,
		GeoZone:            v.GeoZone,
		Transport:          v.Transport,
		Latitude:           numericToFloat(v.Latitude),
		Longitude:          numericToFloat(v.Longitude),
		Status:             string(v.Status),
		IsCoordinator:      v.IsCoordinator,
		PrimaryLevel:       v.PrimaryLevel,
		MiddleLevel:        v.MiddleLevel,
		HighLevel:          v.HighLevel,
		PhotoProvided:      v.PhotoProvided,
		ChatGroupAdded:     v.ChatGroupAdded,
		FileComplete:       v.FileComplete,
		OutlookAdded:       v.OutlookAdded,
		ExtranetAdded:      v.ExtranetAdded,
		WelcomeMeetingDone: v.WelcomeMeetingDone,
		BackgroundCheck:    v.BackgroundCheck,
		ContactOrigin:      v.ContactOrigin,
		ContactDate:        v.ContactDate,
		Availability:       v.Availability,
		Notes:              v.Notes,
		ExtraNotes:         v.ExtraNotes,
		CoManagerID:        v.CoManagerID,
		Subjects:           NewSubjectResponses(v.Subjects),
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

// NewVolunteerResponses maps a slice of volunteer models
func NewVolunteerResponses(volunteers []*models.Volunteer) []VolunteerResponse {
	out := make([]VolunteerResponse, 0, len(volunteers))
	for _, v := range volunteers {
		out = append(out, NewVolunteerResponse(v))
	}
	return out
}
