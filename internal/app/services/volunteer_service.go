package services

import (
	"context"
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

// VolunteerService defines the interface for volunteer-related operations
type VolunteerService interface {
	CreateVolunteer(ctx context.Context, volunteer *models.Volunteer, subjectIDs []int64) (int64, error)
	GetVolunteerByID(ctx context.Context, id int64) (*models.Volunteer, error)
	GetAllVolunteers(ctx context.Context, filter repositories.VolunteerFilter) ([]*models.Volunteer, error)
	UpdateVolunteer(ctx context.Context, volunteer *models.Volunteer, subjectIDs []int64) error
	ArchiveVolunteer(ctx context.Context, id int64) error
	DeleteVolunteer(ctx context.Context, id int64) error
	GeocodeVolunteer(ctx context.Context, id int64) (*models.Volunteer, error)
}

type volunteerServiceImpl struct {
	volunteerRepo *repositories.VolunteerRepository
	geocoder      geocode.Geocoder
	cityPrefix    string
}

// NewVolunteerService creates a new volunteer service instance
func NewVolunteerService(volunteerRepo *repositories.VolunteerRepository, geocoder geocode.Geocoder, cityPrefix string) VolunteerService {
	return &volunteerServiceImpl{
		volunteerRepo: volunteerRepo,
		geocoder:      geocoder,
		cityPrefix:    cityPrefix,
	}
}

func validateVolunteer(volunteer *models.Volunteer) error {
	if volunteer == nil {
		return fmt.Errorf("%w: volunteer is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(volunteer.LastName) == "" {
		return fmt.Errorf("%w: last name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(volunteer.FirstName) == "" {
		return fmt.Errorf("%w: first name cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateVolunteer persists a new volunteer and its subject links.
func (s *volunteerServiceImpl) CreateVolunteer(ctx context.Context, volunteer *models.Volunteer, subjectIDs []int64) (int64, error) {
	if err := validateVolunteer(volunteer); err != nil {
		return 0, err
	}
	if volunteer.Status == "" {
		volunteer.Status = models.VolunteerCandidate
	}

	id, err := s.volunteerRepo.Create(ctx, volunteer)
	if err != nil {
		return 0, err
	}
	if len(subjectIDs) > 0 {
		if err := s.volunteerRepo.ReplaceSubjects(ctx, id, subjectIDs); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// GetVolunteerByID retrieves a volunteer with its subjects.
func (s *volunteerServiceImpl) GetVolunteerByID(ctx context.Context, id int64) (*models.Volunteer, error) {
	return s.volunteerRepo.GetByID(ctx, id)
}

// GetAllVolunteers lists volunteers, optionally filtered.
func (s *volunteerServiceImpl) GetAllVolunteers(ctx context.Context, filter repositories.VolunteerFilter) ([]*models.Volunteer, error) {
	return s.volunteerRepo.GetAll(ctx, filter)
}

// UpdateVolunteer overwrites the volunteer record and rewrites its subject
// links.
func (s *volunteerServiceImpl) UpdateVolunteer(ctx context.Context, volunteer *models.Volunteer, subjectIDs []int64) error {
	if err := validateVolunteer(volunteer); err != nil {
		return err
	}
	if err := s.volunteerRepo.Update(ctx, volunteer); err != nil {
		return err
	}
	return s.volunteerRepo.ReplaceSubjects(ctx, volunteer.ID, subjectIDs)
}

// ArchiveVolunteer marks the volunteer archived.
func (s *volunteerServiceImpl) ArchiveVolunteer(ctx context.Context, id int64) error {
	return s.volunteerRepo.UpdateStatus(ctx, id, models.VolunteerArchived)
}

// DeleteVolunteer removes the row. Pairings keep their row with the
// volunteer reference cleared.
func (s *volunteerServiceImpl) DeleteVolunteer(ctx context.Context, id int64) error {
	return s.volunteerRepo.Delete(ctx, id)
}

// GeocodeVolunteer resolves the volunteer's address to coordinates and
// stores them with the normalized district. On any geocoder failure the
// stored coordinates keep their previous value.
func (s *volunteerServiceImpl) GeocodeVolunteer(ctx context.Context, id int64) (*models.Volunteer, error) {
	volunteer, err := s.volunteerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(volunteer.StreetName) == "" {
		return nil, apperrors.ErrAddressMissing
	}

	result, err := s.geocoder.Geocode(ctx, geocode.Query{
		StreetNumber: volunteer.StreetNumber,
		StreetName:   volunteer.StreetName,
		City:         volunteer.City,
	})
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues(geocodeOutcome(err)).Inc()
		logger.Warn().Err(err).Int64("volunteerID", id).Msg("Volunteer geocoding failed")
		return nil, err
	}
	metrics.GeocodeRequestsTotal.WithLabelValues("ok").Inc()

	lat := importer.ParseDecimal(result.Latitude)
	lng := importer.ParseDecimal(result.Longitude)
	if !lat.Valid || !lng.Valid {
		return nil, fmt.Errorf("%w: unusable coordinates", geocode.ErrUpstream)
	}

	district := importer.NormalizeDistrict(result.PostalCode, s.cityPrefix)
	if err := s.volunteerRepo.UpdateGeolocation(ctx, id, lat, lng, district); err != nil {
		return nil, err
	}

	volunteer.Latitude = lat
	volunteer.Longitude = lng
	volunteer.District = district
	return volunteer, nil
}
