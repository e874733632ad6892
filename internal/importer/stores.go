package importer

import (
	"context"
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

// StudentStore is the slice of the student repository the pipeline needs.
type StudentStore interface {
	FindExact(ctx context.Context, lastName, firstName string) (*models.Student, error)
	FindContaining(ctx context.Context, lastName, firstName string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) (int64, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateStatus(ctx context.Context, id int64, status models.StudentStatus) error
	ReplaceSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error
}

// VolunteerStore is the slice of the volunteer repository the pipeline needs.
type VolunteerStore interface {
	FindExact(ctx context.Context, lastName, firstName string) (*models.Volunteer, error)
	FindContaining(ctx context.Context, lastName, firstName string) (*models.Volunteer, error)
	Create(ctx context.Context, volunteer *models.Volunteer) (int64, error)
	Update(ctx context.Context, volunteer *models.Volunteer) error
	UpdateStatus(ctx context.Context, id int64, status models.VolunteerStatus) error
	ReplaceSubjects(ctx context.Context, volunteerID int64, subjectIDs []int64) error
}

// SubjectStore provides the subject list for the per-run cache.
type SubjectStore interface {
	GetAll(ctx context.Context) ([]*models.Subject, error)
}

// PairingStore is the slice of the pairing repository the activation step
// needs.
type PairingStore interface {
	GetByPair(ctx context.Context, studentID, volunteerID int64) (*models.Pairing, error)
	Create(ctx context.Context, pairing *models.Pairing) (int64, error)
	Reactivate(ctx context.Context, id int64, startDate time.Time) error
}

// Stores bundles the repositories one import run works against. Bound to a
// transaction by the orchestrator, or to in-memory fakes in tests.
type Stores struct {
	Students   StudentStore
	Volunteers VolunteerStore
	Subjects   SubjectStore
	Pairings   PairingStore
}
