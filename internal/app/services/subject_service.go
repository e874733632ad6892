package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
)

// SubjectService defines the interface for subject-related operations
type SubjectService interface {
	CreateSubject(ctx context.Context, subject *models.Subject) (int64, error)
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	GetAllSubjects(ctx context.Context) ([]*models.Subject, error)
	UpdateSubject(ctx context.Context, subject *models.Subject) error
	DeleteSubject(ctx context.Context, id int64) error
}

type subjectServiceImpl struct {
	subjectRepo *repositories.SubjectRepository
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(subjectRepo *repositories.SubjectRepository) SubjectService {
	return &subjectServiceImpl{subjectRepo: subjectRepo}
}

func validateSubject(subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("%w: subject is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(subject.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

func (s *subjectServiceImpl) CreateSubject(ctx context.Context, subject *models.Subject) (int64, error) {
	if err := validateSubject(subject); err != nil {
		return 0, err
	}
	return s.subjectRepo.Create(ctx, subject)
}

func (s *subjectServiceImpl) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

func (s *subjectServiceImpl) GetAllSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

func (s *subjectServiceImpl) UpdateSubject(ctx context.Context, subject *models.Subject) error {
	if err := validateSubject(subject); err != nil {
		return err
	}
	return s.subjectRepo.Update(ctx, subject)
}

func (s *subjectServiceImpl) DeleteSubject(ctx context.Context, id int64) error {
	return s.subjectRepo.Delete(ctx, id)
}
