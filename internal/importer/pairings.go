package importer

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

// ActivationOutcome is the result of one pairing activation attempt.
type ActivationOutcome int

const (
	PairingCreated ActivationOutcome = iota
	PairingReactivated
	PairingAlreadyActive
	PairingStudentNotFound
	PairingVolunteerNotFound
)

// ActivationRequest names the student and the volunteer to pair. Names are
// resolved with the tolerant exact-then-substring matcher: this step runs
// against already-imported data and typos in pairing files are common.
type ActivationRequest struct {
	StudentLastName    string
	StudentFirstName   string
	VolunteerLastName  string
	VolunteerFirstName string
	StartDate          time.Time
	Notes              string
	Mode               Mode
}

// FindStudent resolves a student by name: exact case-insensitive match
// first, then substring containment on the cleaned name. Every fallback
// match is logged for manual audit, because substring matching can attach
// to the wrong person when names overlap.
func FindStudent(ctx context.Context, store StudentStore, lastName, firstName string) (*models.Student, error) {
	student, err := store.FindExact(ctx, lastName, firstName)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, err
	}

	student, err = store.FindContaining(ctx, CleanName(lastName), CleanName(firstName))
	if err != nil {
		return nil, err
	}
	logger.Warn().
		Str("probe", firstName+" "+lastName).
		Str("matched", student.FullName()).
		Int64("studentID", student.ID).
		Msg("Student resolved by substring fallback, verify the match")
	return student, nil
}

// FindVolunteer resolves a volunteer the same way as FindStudent.
func FindVolunteer(ctx context.Context, store VolunteerStore, lastName, firstName string) (*models.Volunteer, error) {
	volunteer, err := store.FindExact(ctx, lastName, firstName)
	if err == nil {
		return volunteer, nil
	}
	if !errors.Is(err, apperrors.ErrVolunteerNotFound) {
		return nil, err
	}

	volunteer, err = store.FindContaining(ctx, CleanName(lastName), CleanName(firstName))
	if err != nil {
		return nil, err
	}
	logger.Warn().
		Str("probe", firstName+" "+lastName).
		Str("matched", volunteer.FullName()).
		Int64("volunteerID", volunteer.ID).
		Msg("Volunteer resolved by substring fallback, verify the match")
	return volunteer, nil
}

// Activate links a student and a volunteer into an active pairing.
// Unresolvable names are an outcome, not an error: the batch must go on.
// Creating the pairing flips the student to "matched" and the volunteer to
// "mentor"; pairing creation is the one place this transition happens.
func Activate(ctx context.Context, stores Stores, req ActivationRequest) (ActivationOutcome, error) {
	student, err := FindStudent(ctx, stores.Students, req.StudentLastName, req.StudentFirstName)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return PairingStudentNotFound, nil
		}
		return 0, err
	}

	volunteer, err := FindVolunteer(ctx, stores.Volunteers, req.VolunteerLastName, req.VolunteerFirstName)
	if err != nil {
		if errors.Is(err, apperrors.ErrVolunteerNotFound) {
			return PairingVolunteerNotFound, nil
		}
		return 0, err
	}

	existing, err := stores.Pairings.GetByPair(ctx, student.ID, volunteer.ID)
	switch {
	case err == nil:
		if existing.Active {
			return PairingAlreadyActive, nil
		}
		if req.Mode != CreateOrUpdate {
			return PairingAlreadyActive, nil
		}
		if err := stores.Pairings.Reactivate(ctx, existing.ID, req.StartDate); err != nil {
			return 0, err
		}
		return PairingReactivated, nil

	case errors.Is(err, apperrors.ErrPairingNotFound):
		pairing := &models.Pairing{
			StudentID:   student.ID,
			VolunteerID: &volunteer.ID,
			StartDate:   req.StartDate,
			Active:      true,
			Notes:       req.Notes,
		}
		if _, err := stores.Pairings.Create(ctx, pairing); err != nil {
			return 0, err
		}
		if student.Status != models.StudentMatched {
			if err := stores.Students.UpdateStatus(ctx, student.ID, models.StudentMatched); err != nil {
				return 0, err
			}
		}
		if volunteer.Status != models.VolunteerMentor {
			if err := stores.Volunteers.UpdateStatus(ctx, volunteer.ID, models.VolunteerMentor); err != nil {
				return 0, err
			}
		}
		return PairingCreated, nil

	default:
		return 0, err
	}
}

// ImportPairings runs pairing activation over a header-keyed CSV stream.
// Rows with a missing start date default to today.
func (im *Importer) ImportPairings(ctx context.Context, r io.Reader, opts Options) (*Report, error) {
	rows, err := ReadRows(r, PairingProfile)
	if err != nil {
		return nil, err
	}
	return im.run(ctx, "pairings", rows, opts, activatePairingRow)
}

func activatePairingRow(ctx context.Context, stores Stores, _ *SubjectCache, row Row, mode Mode, _ string) (rowOutcome, error) {
	start := time.Now()
	if d := ParseDate(row.Get(FieldStartDate)); d != nil {
		start = *d
	}

	outcome, err := Activate(ctx, stores, ActivationRequest{
		StudentLastName:    row.Text(FieldLastName),
		StudentFirstName:   row.Text(FieldFirstName),
		VolunteerLastName:  row.Text(FieldVolunteerLastName),
		VolunteerFirstName: row.Text(FieldVolunteerFirstName),
		StartDate:          start,
		Notes:              row.Text(FieldNotes),
		Mode:               mode,
	})
	if err != nil {
		return 0, err
	}

	switch outcome {
	case PairingCreated:
		return outcomeCreated, nil
	case PairingReactivated:
		return outcomeUpdated, nil
	case PairingStudentNotFound, PairingVolunteerNotFound:
		logger.Warn().
			Int("line", row.Line).
			Str("student", row.Text(FieldFirstName)+" "+row.Text(FieldLastName)).
			Str("volunteer", row.Text(FieldVolunteerFirstName)+" "+row.Text(FieldVolunteerLastName)).
			Msg("Pairing row skipped, entity not found")
		return outcomeSkippedNotFound, nil
	default:
		return outcomeSkippedActive, nil
	}
}
