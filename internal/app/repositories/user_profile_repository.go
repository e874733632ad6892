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

// UserProfileRepository handles login account database operations
type UserProfileRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewUserProfileRepository creates a new UserProfileRepository
func NewUserProfileRepository(db DBTX) *UserProfileRepository {
	return &UserProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new login account.
func (r *UserProfileRepository) Create(ctx context.Context, profile *models.UserProfile) (int64, error) {
	sql, args, err := r.sb.Insert("user_profiles").
		Columns("username", "password_hash", "volunteer_id", "is_admin").
		Values(profile.Username, profile.PasswordHash, profile.VolunteerID, profile.IsAdmin).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrUsernameExists
		}
		return 0, fmt.Errorf("error creating user profile: %w", err)
	}
	return profile.ID, nil
}

// GetByID retrieves a login account by ID.
func (r *UserProfileRepository) GetByID(ctx context.Context, id int64) (*models.UserProfile, error) {
	sql, args, err := r.sb.Select("id", "username", "password_hash", "volunteer_id", "is_admin", "created_at").
		From("user_profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user profile query: %w", err)
	}

	p := &models.UserProfile{}
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&p.ID, &p.Username, &p.PasswordHash, &p.VolunteerID, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user profile by ID: %w", err)
	}
	return p, nil
}

// GetByUsername retrieves a login account by username.
func (r *UserProfileRepository) GetByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	sql, args, err := r.sb.Select("id", "username", "password_hash", "volunteer_id", "is_admin", "created_at").
		From("user_profiles").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user profile by username query: %w", err)
	}

	p := &models.UserProfile{}
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&p.ID, &p.Username, &p.PasswordHash, &p.VolunteerID, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user profile by username: %w", err)
	}
	return p, nil
}

// GetAll retrieves all login accounts ordered by username.
func (r *UserProfileRepository) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	sql, args, err := r.sb.Select("id", "username", "password_hash", "volunteer_id", "is_admin", "created_at").
		From("user_profiles").
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list user profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing user profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.UserProfile
	for rows.Next() {
		p := &models.UserProfile{}
		if err := rows.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.VolunteerID, &p.IsAdmin, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdatePassword replaces the stored password hash.
func (r *UserProfileRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	sql, args, err := r.sb.Update("user_profiles").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a login account.
func (r *UserProfileRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("user_profiles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
