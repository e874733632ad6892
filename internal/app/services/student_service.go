package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/importer"
	"github.com/esa-marseille/esa-manager/internal/metrics"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/geocode"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student, subjectIDs []int64) (int64, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetAllStudents(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student, subjectIDs []int64) error
	ArchiveStudent(ctx context.Context, id int64) error
	DeleteStudent(ctx context.Context, id int64) error
	GeocodeStudent(ctx context.Context, id int64) (*models.Student, error)
}

type studentServiceImpl struct {
	studentRepo *repositories.StudentRepository
	geocoder    geocode.Geocoder
	cityPrefix  string
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo *repositories.StudentRepository, geocoder geocode.Geocoder, cityPrefix string) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		geocoder:    geocoder,
		cityPrefix:  cityPrefix,
	}
}

func validateStudent(student *models.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(student.LastName) == "" {
		return fmt.Errorf("%w: last name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(student.FirstName) == "" {
		return fmt.Errorf("%w: first name cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateStudent persists a new student and its subject links.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student, subjectIDs []int64) (int64, error) {
	if err := validateStudent(student); err != nil {
		return 0, err
	}
	if student.Status == "" {
		student.Status = models.StudentToBeMatched
	}
	if student.EntryStatus == "" {
		student.EntryStatus = models.EntryDraft
	}

	id, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return 0, err
	}
	if len(subjectIDs) > 0 {
		if err := s.studentRepo.ReplaceSubjects(ctx, id, subjectIDs); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// GetStudentByID retrieves a student with its subjects.
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetAllStudents lists students, optionally filtered.
func (s *studentServiceImpl) GetAllStudents(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx, filter)
}

// UpdateStudent overwrites the student record and rewrites its subject links.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, student *models.Student, subjectIDs []int64) error {
	if err := validateStudent(student); err != nil {
		return err
	}
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return err
	}
	return s.studentRepo.ReplaceSubjects(ctx, student.ID, subjectIDs)
}

// ArchiveStudent marks the student archived. Records are archived rather
// than deleted in normal operation.
func (s *studentServiceImpl) ArchiveStudent(ctx context.Context, id int64) error {
	return s.studentRepo.UpdateStatus(ctx, id, models.StudentArchived)
}

// DeleteStudent removes the row entirely, cascading to its pairings.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	return s.studentRepo.Delete(ctx, id)
}

// GeocodeStudent resolves the student's address to coordinates and stores
// them together with the normalized district. On any geocoder failure the
// stored coordinates keep their previous value.
func (s *studentServiceImpl) GeocodeStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(student.StreetName) == "" {
		return nil, apperrors.ErrAddressMissing
	}

	result, err := s.geocoder.Geocode(ctx, geocode.Query{
		StreetNumber: student.StreetNumber,
		StreetName:   student.StreetName,
		City:         student.City,
	})
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues(geocodeOutcome(err)).Inc()
		logger.Warn().Err(err).Int64("studentID", id).Msg("Student geocoding failed")
		return nil, err
	}
	metrics.GeocodeRequestsTotal.WithLabelValues("ok").Inc()

	lat := importer.ParseDecimal(result.Latitude)
	lng := importer.ParseDecimal(result.Longitude)
	if !lat.Valid || !lng.Valid {
		return nil, fmt.Errorf("%w: unusable coordinates", geocode.ErrUpstream)
	}

	district := importer.NormalizeDistrict(result.PostalCode, s.cityPrefix)
	if err := s.studentRepo.UpdateGeolocation(ctx, id, lat, lng, district); err != nil {
		return nil, err
	}

	student.Latitude = lat
	student.Longitude = lng
	student.District = district
	return student, nil
}

// geocodeOutcome labels a geocoder failure for metrics.
func geocodeOutcome(err error) string {
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		return "not_found"
	case errors.Is(err, geocode.ErrTimeout):
		return "timeout"
	default:
		return "upstream_error"
	}
}
