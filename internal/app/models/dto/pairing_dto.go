package dto

import (
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

// CreatePairingRequest represents the payload to pair a student with a volunteer
type CreatePairingRequest struct {
	StudentID   int64  `json:"studentId" binding:"required,min=1"`
	VolunteerID int64  `json:"volunteerId" binding:"required,min=1"`
	StartDate   string `json:"startDate"`
	Notes       string `json:"notes"`
}

// EndPairingRequest represents the payload to end an active pairing
type EndPairingRequest struct {
	EndDate string `json:"endDate"`
	Notes   string `json:"notes"`
}

// PairingResponse represents a pairing as returned by the API
type PairingResponse struct {
	ID          int64              `json:"id"`
	StudentID   int64              `json:"studentId"`
	VolunteerID *int64             `json:"volunteerId"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
	Active      bool               `json:"active"`
	Notes       string             `json:"notes"`
	Student     *StudentResponse   `json:"student,omitempty"`
	Volunteer   *VolunteerResponse `json:"volunteer,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewPairingResponse maps a pairing model to its API representation
func NewPairingResponse(p *models.Pairing) PairingResponse {
	resp := PairingResponse{
		ID:          p.ID,
		StudentID:   p.StudentID,
		VolunteerID: p.VolunteerID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Active:      p.Active,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Student != nil {
		s := NewStudentResponse(p.Student)
		resp.Student = &s
	}
	if p.Volunteer != nil {
		v := NewVolunteerResponse(p.Volunteer)
		resp.Volunteer = &v
	}
	return resp
}

// NewPairingResponses maps a slice of pairing models
func NewPairingResponses(pairings []*models.Pairing) []PairingResponse {
	out := make([]PairingResponse, 0, len(pairings))
	for _, p := range pairings {
		out = append(out, NewPairingResponse(p))
	}
	return out
}
