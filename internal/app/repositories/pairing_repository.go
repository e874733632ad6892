package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/dberrors"
)

var pairingColumns = []string{
	"id", "student_id", "volunteer_id", "start_date", "end_date", "active", "notes",
	"created_at", "updated_at",
}

// PairingRepository handles pairing database operations
type PairingRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewPairingRepository creates a new PairingRepository
func NewPairingRepository(db DBTX) *PairingRepository {
	return &PairingRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanPairing(row interface{ Scan(dest ...any) error }) (*models.Pairing, error) {
	p := &models.Pairing{}
	err := row.Scan(
		&p.ID, &p.StudentID, &p.VolunteerID, &p.StartDate, &p.EndDate, &p.Active, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new pairing. The partial unique index on active pairings
// rejects a second active pairing for the same student, which surfaces as
// apperrors.ErrPairingAlreadyActive.
func (r *PairingRepository) Create(ctx context.Context, pairing *models.Pairing) (int64, error) {
	sql, args, err := r.sb.Insert("pairings").
		Columns("student_id", "volunteer_id", "start_date", "end_date", "active", "notes").
		Values(pairing.StudentID, pairing.VolunteerID, pairing.StartDate, pairing.EndDate, pairing.Active, pairing.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create pairing query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&pairing.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "pairings_one_active_per_student") {
			return 0, apperrors.ErrPairingAlreadyActive
		}
		return 0, fmt.Errorf("error creating pairing: %w", err)
	}
	return pairing.ID, nil
}

// GetByID retrieves a pairing by ID.
func (r *PairingRepository) GetByID(ctx context.Context, id int64) (*models.Pairing, error) {
	sql, args, err := r.sb.Select(pairingColumns...).
		From("pairings").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get pairing query: %w", err)
	}

	pairing, err := scanPairing(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPairingNotFound
		}
		return nil, fmt.Errorf("error getting pairing by ID: %w", err)
	}
	return pairing, nil
}

// GetActiveByStudent returns the student's active pairing, if any.
func (r *PairingRepository) GetActiveByStudent(ctx context.Context, studentID int64) (*models.Pairing, error) {
	sql, args, err := r.sb.Select(pairingColumns...).
		From("pairings").
		Where(squirrel.Eq{"student_id": studentID, "active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get active pairing query: %w", err)
	}

	pairing, err := scanPairing(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPairingNotFound
		}
		return nil, fmt.Errorf("error getting active pairing: %w", err)
	}
	return pairing, nil
}

// GetByPair returns the pairing linking a student and a volunteer, active
// or not, preferring the most recent one.
func (r *PairingRepository) GetByPair(ctx context.Context, studentID, volunteerID int64) (*models.Pairing, error) {
	sql, args, err := r.sb.Select(pairingColumns...).
		From("pairings").
		Where(squirrel.Eq{"student_id": studentID, "volunteer_id": volunteerID}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get pairing by pair query: %w", err)
	}

	pairing, err := scanPairing(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPairingNotFound
		}
		return nil, fmt.Errorf("error getting pairing by pair: %w", err)
	}
	return pairing, nil
}

// GetAll retrieves pairings, optionally only active ones.
func (r *PairingRepository) GetAll(ctx context.Context, activeOnly bool) ([]*models.Pairing, error) {
	q := r.sb.Select(pairingColumns...).
		From("pairings").
		OrderBy("start_date DESC", "id DESC")
	if activeOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list pairings query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing pairings: %w", err)
	}
	defer rows.Close()

	var pairings []*models.Pairing
	for rows.Next() {
		p, err := scanPairing(rows)
		if err != nil {
			return nil, err
		}
		pairings = append(pairings, p)
	}
	return pairings, rows.Err()
}

// Deactivate closes a pairing, stamping its end date.
func (r *PairingRepository) Deactivate(ctx context.Context, id int64, endDate any) error {
	sql, args, err := r.sb.Update("pairings").
		Set("active", false).
		Set("end_date", endDate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deactivate pairing query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deactivating pairing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPairingNotFound
	}
	return nil
}

// Reactivate reopens a closed pairing with a fresh start date.
func (r *PairingRepository) Reactivate(ctx context.Context, id int64, startDate time.Time) error {
	sql, args, err := r.sb.Update("pairings").
		Set("active", true).
		Set("start_date", startDate).
		Set("end_date", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reactivate pairing query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "pairings_one_active_per_student") {
			return apperrors.ErrPairingAlreadyActive
		}
		return fmt.Errorf("error reactivating pairing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPairingNotFound
	}
	return nil
}

// Delete removes a pairing row entirely.
func (r *PairingRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("pairings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete pairing query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting pairing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPairingNotFound
	}
	return nil
}

// CountActive returns the number of active pairings.
func (r *PairingRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pairings WHERE active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting active pairings: %w", err)
	}
	return n, nil
}

// GetAllActiveWithRelations loads active pairings with their student and
// volunteer rows, for the association map.
func (r *PairingRepository) GetAllActiveWithRelations(ctx context.Context) ([]*models.Pairing, error) {
	pairings, err := r.GetAll(ctx, true)
	if err != nil {
		return nil, err
	}

	students := NewStudentRepository(r.db)
	volunteers := NewVolunteerRepository(r.db)
	for _, p := range pairings {
		if p.Student, err = students.GetByID(ctx, p.StudentID); err != nil {
			return nil, err
		}
		if p.VolunteerID != nil {
			v, err := volunteers.GetByID(ctx, *p.VolunteerID)
			if err != nil && !errors.Is(err, apperrors.ErrVolunteerNotFound) {
				return nil, err
			}
			p.Volunteer = v
		}
	}
	return pairings, nil
}
