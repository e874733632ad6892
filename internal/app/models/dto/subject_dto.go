package dto

import (
	"github.com/esa-marseille/esa-manager/internal/app/models"
)

// SubjectResponse represents a tutoring subject
type SubjectResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
	Active    bool   `json:"active"`
}

// CreateSubjectRequest represents the payload to create a subject
type CreateSubjectRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sortOrder"`
	Active    *bool  `json:"active"`
}

// NewSubjectResponse maps a subject model to its API representation
func NewSubjectResponse(s *models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:        s.ID,
		Name:      s.Name,
		SortOrder: s.SortOrder,
		Active:    s.Active,
	}
}

// NewSubjectResponses maps a slice of subject models
func NewSubjectResponses(subjects []*models.Subject) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, NewSubjectResponse(s))
	}
	return out
}
