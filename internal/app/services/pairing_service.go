package services

import (
	"context"
	"errors"
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

// PairingService defines the interface for pairing lifecycle operations
type PairingService interface {
	ActivatePairing(ctx context.Context, studentID, volunteerID int64, startDate time.Time, notes string) (*models.Pairing, error)
	EndPairing(ctx context.Context, id int64, endDate time.Time) error
	GetPairingByID(ctx context.Context, id int64) (*models.Pairing, error)
	GetAllPairings(ctx context.Context, activeOnly bool) ([]*models.Pairing, error)
	DeletePairing(ctx context.Context, id int64) error
}

type pairingServiceImpl struct {
	pairingRepo   *repositories.PairingRepository
	studentRepo   *repositories.StudentRepository
	volunteerRepo *repositories.VolunteerRepository
}

// NewPairingService creates a new pairing service instance
func NewPairingService(pairingRepo *repositories.PairingRepository, studentRepo *repositories.StudentRepository, volunteerRepo *repositories.VolunteerRepository) PairingService {
	return &pairingServiceImpl{
		pairingRepo:   pairingRepo,
		studentRepo:   studentRepo,
		volunteerRepo: volunteerRepo,
	}
}

// ActivatePairing links a student and a volunteer. An inactive pairing for
// the same pair is reactivated instead of duplicated. Creating or
// reactivating a pairing flips the student to "matched" and the volunteer
// to "mentor"; this cross-entity side effect is the one trigger for that
// transition.
func (s *pairingServiceImpl) ActivatePairing(ctx context.Context, studentID, volunteerID int64, startDate time.Time, notes string) (*models.Pairing, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	volunteer, err := s.volunteerRepo.GetByID(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	pairing, err := s.pairingRepo.GetByPair(ctx, studentID, volunteerID)
	switch {
	case err == nil:
		if pairing.Active {
			return nil, apperrors.ErrPairingAlreadyActive
		}
		if err := s.pairingRepo.Reactivate(ctx, pairing.ID, startDate); err != nil {
			return nil, err
		}
		pairing.Active = true
		pairing.StartDate = startDate
		pairing.EndDate = nil

	case errors.Is(err, apperrors.ErrPairingNotFound):
		pairing = &models.Pairing{
			StudentID:   studentID,
			VolunteerID: &volunteerID,
			StartDate:   startDate,
			Active:      true,
			Notes:       notes,
		}
		id, err := s.pairingRepo.Create(ctx, pairing)
		if err != nil {
			return nil, err
		}
		pairing.ID = id

	default:
		return nil, err
	}

	if student.Status != models.StudentMatched {
		if err := s.studentRepo.UpdateStatus(ctx, studentID, models.StudentMatched); err != nil {
			return nil, err
		}
	}
	if volunteer.Status != models.VolunteerMentor {
		if err := s.volunteerRepo.UpdateStatus(ctx, volunteerID, models.VolunteerMentor); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int64("pairingID", pairing.ID).
		Str("student", student.FullName()).
		Str("volunteer", volunteer.FullName()).
		Msg("Pairing activated")
	return pairing, nil
}

// EndPairing closes an active pairing without deleting its history.
func (s *pairingServiceImpl) EndPairing(ctx context.Context, id int64, endDate time.Time) error {
	return s.pairingRepo.Deactivate(ctx, id, endDate)
}

func (s *pairingServiceImpl) GetPairingByID(ctx context.Context, id int64) (*models.Pairing, error) {
	return s.pairingRepo.GetByID(ctx, id)
}

func (s *pairingServiceImpl) GetAllPairings(ctx context.Context, activeOnly bool) ([]*models.Pairing, error) {
	return s.pairingRepo.GetAll(ctx, activeOnly)
}

func (s *pairingServiceImpl) DeletePairing(ctx context.Context, id int64) error {
	return s.pairingRepo.Delete(ctx, id)
}
