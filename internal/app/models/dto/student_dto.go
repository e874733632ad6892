package dto

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

// CreateStudentRequest represents the payload to register a new student
type CreateStudentRequest struct {
	LastName        string `json:"lastName" binding:"required"`
	FirstName       string `json:"firstName" binding:"required"`
	Phone           string `json:"phone"`
	ParentLastName  string `json:"parentLastName"`
	ParentFirstName string `json:"parentFirstName"`
	ParentPhone     string `json:"parentPhone"`
	ParentEmail     string `json:"parentEmail"`

	GradeLevel string `json:"gradeLevel"`
	School     string `json:"school"`

	StreetNumber      string `json:"streetNumber"`
	StreetName        string `json:"streetName"`
	AddressComplement string `json:"addressComplement"`
	PostalCode        string `json:"postalCode"`
	City              string `json:"city"`

	Status      string  `json:"status"`
	EntryStatus string  `json:"entryStatus"`
	Notes       string  `json:"notes"`
	CoManagerID *int64  `json:"coManagerId"`
	SubjectIDs  []int64 `json:"subjectIds"`
}

// UpdateStudentRequest represents a full update of a student record
type UpdateStudentRequest = CreateStudentRequest

// StudentResponse represents a student as returned by the API
type StudentResponse struct {
	ID              int64  `json:"id"`
	LastName        string `json:"lastName"`
	FirstName       string `json:"firstName"`
	Phone           string `json:"phone"`
	ParentLastName  string `json:"parentLastName"`
	ParentFirstName string `json:"parentFirstName"`
	ParentPhone     string `json:"parentPhone"`
	ParentEmail     string `json:"parentEmail"`

	GradeLevel string `json:"gradeLevel"`
	School     string `json:"school"`

	StreetNumber      string   `json:"streetNumber"`
	StreetName        string   `json:"streetName"`
	AddressComplement string   `json:"addressComplement"`
	PostalCode        string   `json:"postalCode"`
	City              string   `json:"city"`
	District          string   `json:"district"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`

	Status      string            `json:"status"`
	EntryStatus string            `json:"entryStatus"`
	Notes       string            `json:"notes"`
	CoManagerID *int64            `json:"coManagerId,omitempty"`
	LastVisitAt *time.Time        `json:"lastVisitAt,omitempty"`
	Subjects    []SubjectResponse `json:"subjects"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// numericToFloat converts a nullable NUMERIC coordinate to a float pointer.
func numericToFloat(n pgtype.Numeric) *float64 {
	if !n.Valid {
		return nil
	}
	v, err := n.Float64Value()
	if err != nil || !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// NewStudentResponse maps a student model to its API representation
func NewStudentResponse(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:                s.ID,
		LastName:          s.LastName,
		FirstName:         s.FirstName,
		Phone:             s.Phone,
		ParentLastName:    s.ParentLastName,
		ParentFirstName:   s.ParentFirstName,
		ParentPhone:       s.ParentPhone,
		ParentEmail:       s.ParentEmail,
		GradeLevel:        s.GradeLevel,
		School:            s.School,
		StreetNumber:      s.StreetNumber,
		StreetName:        s.StreetName,
		AddressComplement: s.AddressComplement,
		PostalCode:        s.PostalCode,
		City:              s.City,
		District:          s.District,
		Latitude:          numericToFloat(s.Latitude),
		Longitude:         numericToFloat(s.Longitude),
		Status:            string(s.Status),
		EntryStatus:       string(s.EntryStatus),
		Notes:             s.Notes,
		CoManagerID:       s.CoManagerID,
		LastVisitAt:       s.LastVisitAt,
		Subjects:          NewSubjectResponses(s.Subjects),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// NewStudentResponses maps a slice of student models
func NewStudentResponses(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}
