package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/dberrors"
)

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db DBTX) *SubjectRepository {
	return &SubjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) (int64, error) {
	sql, args, err := r.sb.Insert("subjects").
		Columns("name", "sort_order", "active").
		Values(subject.Name, subject.SortOrder, subject.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create subject query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrSubjectAlreadyExists
		}
		return 0, fmt.Errorf("error creating subject: %w", err)
	}
	return subject.ID, nil
}

// GetByID retrieves a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	sql, args, err := r.sb.Select("id", "name", "sort_order", "active").
		From("subjects").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	s := &models.Subject{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Name, &s.SortOrder, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error getting subject by ID: %w", err)
	}
	return s, nil
}

// GetByName retrieves a subject by case-insensitive name.
func (r *SubjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	sql, args, err := r.sb.Select("id", "name", "sort_order", "active").
		From("subjects").
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject by name query: %w", err)
	}

	s := &models.Subject{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Name, &s.SortOrder, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error getting subject by name: %w", err)
	}
	return s, nil
}

// GetAll retrieves all subjects ordered for display.
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	sql, args, err := r.sb.Select("id", "name", "sort_order", "active").
		From("subjects").
		OrderBy("sort_order ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder, &s.Active); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// GetOrCreate returns the subject with the given name, creating it when it
// does not exist yet. Used by the seeder and the CSV importer.
func (r *SubjectRepository) GetOrCreate(ctx context.Context, name string, sortOrder int) (*models.Subject, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrSubjectNotFound) {
		return nil, err
	}

	s := &models.Subject{Name: name, SortOrder: sortOrder, Active: true}
	if _, err := r.Create(ctx, s); err != nil {
		// Lost a race with a concurrent insert; re-read.
		if errors.Is(err, apperrors.ErrSubjectAlreadyExists) {
			return r.GetByName(ctx, name)
		}
		return nil, err
	}
	return s, nil
}

// Update modifies a subject's name, ordering and visibility.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	sql, args, err := r.sb.Update("subjects").
		Set("name", subject.Name).
		Set("sort_order", subject.SortOrder).
		Set("active", subject.Active).
		Where(squirrel.Eq{"id": subject.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update subject query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("error updating subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Delete removes a subject. Links from students and volunteers are removed
// by the ON DELETE CASCADE constraints.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("subjects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete subject query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}
