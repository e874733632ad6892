package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

var volunteerColumns = []string{
	"id", "last_name", "first_name", "email", "phone", "profession",
	"street_number", "street_name", "postal_code", "city", "district", "geo_zone", "transport",
	"latitude", "longitude",
	"status", "is_coordinator",
	"primary_level", "middle_level", "high_level",
	"photo_provided", "chat_group_added", "file_complete", "outlook_added", "extranet_added",
	"welcome_meeting_done", "background_check",
	"contact_origin", "contact_date", "availability",
	"notes", "extra_notes", "co_manager_id",
	"created_at", "updated_at",
}

// VolunteerRepository handles volunteer database operations
type VolunteerRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewVolunteerRepository creates a new VolunteerRepository
func NewVolunteerRepository(db DBTX) *VolunteerRepository {
	return &VolunteerRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanVolunteer(row interface{ Scan(dest ...any) error }) (*models.Volunteer, error) {
	v := &models.Volunteer{}
	err := row.Scan(
		&v.ID, &v.LastName, &v.FirstName, &v.Email, &v.Phone, &v.Profession,
		&v.StreetNumber, &v.StreetName, &v.PostalCode, &v.City, &v.District, &v.GeoZone, &v.Transport,
		&v.Latitude, &v.Longitude,
		&v.Status, &v.IsCoordinator,
		&v.PrimaryLevel, &v.MiddleLevel, &v.HighLevel,
		&v.PhotoProvided, &v.ChatGroupAdded, &v.FileComplete, &v.OutlookAdded, &v.ExtranetAdded,
		&v.WelcomeMeetingDone, &v.BackgroundCheck,
		&v.ContactOrigin, &v.ContactDate, &v.Availability,
		&v.Notes, &v.ExtraNotes, &v.CoManagerID,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Create inserts a new volunteer and fills in its generated ID.
func (r *VolunteerRepository) Create(ctx context.Context, volunteer *models.Volunteer) (int64, error) {
	sql, args, err := r.sb.Insert("volunteers").
		Columns(
			"last_name", "first_name", "email", "phone", "profession",
			"street_number", "street_name", "postal_code", "city", "district", "geo_zone", "transport",
			"latitude", "longitude",
			"status", "is_coordinator",
			"primary_level", "middle_level", "high_level",
			"photo_provided", "chat_group_added", "file_complete", "outlook_added", "extranet_added",
			"welcome_meeting_done", "background_check",
			"contact_origin", "contact_date", "availability",
			"notes", "extra_notes", "co_manager_id",
		).
		Values(
			volunteer.LastName, volunteer.FirstName, volunteer.Email, volunteer.Phone, volunteer.Profession,
			volunteer.StreetNumber, volunteer.StreetName, volunteer.PostalCode, volunteer.City,
			volunteer.District, volunteer.GeoZone, volunteer.Transport,
			volunteer.Latitude, volunteer.Longitude,
			volunteer.Status, volunteer.IsCoordinator,
			volunteer.PrimaryLevel, volunteer.MiddleLevel, volunteer.HighLevel,
			volunteer.PhotoProvided, volunteer.ChatGroupAdded, volunteer.FileComplete,
			volunteer.OutlookAdded, volunteer.ExtranetAdded,
			volunteer.WelcomeMeetingDone, volunteer.BackgroundCheck,
			volunteer.ContactOrigin, volunteer.ContactDate, volunteer.Availability,
			volunteer.Notes, volunteer.ExtraNotes, volunteer.CoManagerID,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create volunteer query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&volunteer.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create volunteer query")
		return 0, fmt.Errorf("error creating volunteer: %w", err)
	}
	return volunteer.ID, nil
}

// GetByID retrieves a volunteer by ID, subjects included.
func (r *VolunteerRepository) GetByID(ctx context.Context, id int64) (*models.Volunteer, error) {
	sql, args, err := r.sb.Select(volunteerColumns...).
		From("volunteers").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get volunteer query: %w", err)
	}

	volunteer, err := scanVolunteer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVolunteerNotFound
		}
		logger.Error().Err(err).Int64("volunteerID", id).Msg("Error scanning volunteer row")
		return nil, fmt.Errorf("error getting volunteer by ID: %w", err)
	}

	volunteer.Subjects, err = r.getSubjects(ctx, volunteer.ID)
	if err != nil {
		return nil, err
	}
	return volunteer, nil
}

// VolunteerFilter narrows GetAll results. Zero values mean "no filter".
type VolunteerFilter struct {
	Status      models.VolunteerStatus
	Coordinator *bool
}

// GetAll retrieves volunteers ordered by name, optionally filtered.
func (r *VolunteerRepository) GetAll(ctx context.Context, filter VolunteerFilter) ([]*models.Volunteer, error) {
	q := r.sb.Select(volunteerColumns...).
		From("volunteers").
		OrderBy("last_name ASC", "first_name ASC")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Coordinator != nil {
		q = q.Where(squirrel.Eq{"is_coordinator": *filter.Coordinator})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list volunteers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []*models.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachSubjects(ctx, volunteers); err != nil {
		return nil, err
	}
	return volunteers, nil
}

// Update overwrites every mutable column of the volunteer row.
func (r *VolunteerRepository) Update(ctx context.Context, volunteer *models.Volunteer) error {
	sql, args, err := r.sb.Update("volunteers").
		Set("last_name", volunteer.LastName).
		Set("first_name", volunteer.FirstName).
		Set("email", volunteer.Email).
		Set("phone", volunteer.Phone).
		Set("profession", volunteer.Profession).
		Set("street_number", volunteer.StreetNumber).
		Set("street_name", volunteer.StreetName).
		Set("postal_code", volunteer.PostalCode).
		Set("city", volunteer.City).
		Set("district", volunteer.District).
		Set("geo_zone", volunteer.GeoZone).
		Set("transport", volunteer.Transport).
		Set("latitude", volunteer.Latitude).
		Set("longitude", volunteer.Longitude).
		Set("status", volunteer.Status).
		Set("is_coordinator", volunteer.IsCoordinator).
		Set("primary_level", volunteer.PrimaryLevel).
		Set("middle_level", volunteer.MiddleLevel).
		Set("high_level", volunteer.HighLevel).
		Set("photo_provided", volunteer.PhotoProvided).
		Set("chat_group_added", volunteer.ChatGroupAdded).
		Set("file_complete", volunteer.FileComplete).
		Set("outlook_added", volunteer.OutlookAdded).
		Set("extranet_added", volunteer.ExtranetAdded).
		Set("welcome_meeting_done", volunteer.WelcomeMeetingDone).
		Set("background_check", volunteer.BackgroundCheck).
		Set("contact_origin", volunteer.ContactOrigin).
		Set("contact_date", volunteer.ContactDate).
		Set("availability", volunteer.Availability).
		Set("notes", volunteer.Notes).
		Set("extra_notes", volunteer.ExtraNotes).
		Set("co_manager_id", volunteer.CoManagerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": volunteer.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update volunteer query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("volunteerID", volunteer.ID).Msg("Error executing update volunteer query")
		return fmt.Errorf("error updating volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVolunteerNotFound
	}
	return nil
}

// UpdateStatus changes only the status column.
func (r *VolunteerRepository) UpdateStatus(ctx context.Context, id int64, status models.VolunteerStatus) error {
	sql, args, err := r.sb.Update("volunteers").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update volunteer status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating volunteer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVolunteerNotFound
	}
	return nil
}

// UpdateGeolocation stores new coordinates and the normalized district.
func (r *VolunteerRepository) UpdateGeolocation(ctx context.Context, id int64, lat, lng any, district string) error {
	sql, args, err := r.sb.Update("volunteers").
		Set("latitude", lat).
		Set("longitude", lng).
		Set("district", district).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update volunteer geolocation query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating volunteer geolocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVolunteerNotFound
	}
	return nil
}

// Delete removes a volunteer. Pairings referencing it keep their row with a
// NULL volunteer through ON DELETE SET NULL.
func (r *VolunteerRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("volunteers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete volunteer query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVolunteerNotFound
	}
	return nil
}

// FindExact looks up a volunteer by case-insensitive exact name match.
// Returns apperrors.ErrVolunteerNotFound when no row matches.
func (r *VolunteerRepository) FindExact(ctx context.Context, lastName, firstName string) (*models.Volunteer, error) {
	sql, args, err := r.sb.Select(volunteerColumns...).
		From("volunteers").
		Where(squirrel.Expr("LOWER(last_name) = LOWER(?)", lastName)).
		Where(squirrel.Expr("LOWER(first_name) = LOWER(?)", firstName)).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find volunteer query: %w", err)
	}

	volunteer, err := scanVolunteer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("error finding volunteer: %w", err)
	}
	return volunteer, nil
}

// FindContaining looks up a volunteer whose name contains, or is contained
// in, the given name, case-insensitively. The lowest ID wins when several
// rows match. Returns apperrors.ErrVolunteerNotFound when no row matches.
func (r *VolunteerRepository) FindContaining(ctx context.Context, lastName, firstName string) (*models.Volunteer, error) {
	last := strings.ToLower(lastName)
	first := strings.ToLower(firstName)

	sql, args, err := r.sb.Select(volunteerColumns...).
		From("volunteers").
		Where(squirrel.Expr(
			"(LOWER(last_name) LIKE '%' || ? || '%' OR ? LIKE '%' || LOWER(last_name) || '%')", escapeLike(last), last)).
		Where(squirrel.Expr(
			"(LOWER(first_name) LIKE '%' || ? || '%' OR ? LIKE '%' || LOWER(first_name) || '%')", escapeLike(first), first)).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find volunteer query: %w", err)
	}

	volunteer, err := scanVolunteer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("error finding volunteer: %w", err)
	}
	return volunteer, nil
}

// ReplaceSubjects rewrites the volunteer's subject links.
func (r *VolunteerRepository) ReplaceSubjects(ctx context.Context, volunteerID int64, subjectIDs []int64) error {
	delSQL, delArgs, err := r.sb.Delete("volunteer_subjects").
		Where(squirrel.Eq{"volunteer_id": volunteerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear volunteer subjects query: %w", err)
	}
	if _, err := r.db.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing volunteer subjects: %w", err)
	}

	if len(subjectIDs) == 0 {
		return nil
	}

	ins := r.sb.Insert("volunteer_subjects").Columns("volunteer_id", "subject_id")
	for _, sid := range subjectIDs {
		ins = ins.Values(volunteerID, sid)
	}
	insSQL, insArgs, err := ins.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert volunteer subjects query: %w", err)
	}
	if _, err := r.db.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("error inserting volunteer subjects: %w", err)
	}
	return nil
}

func (r *VolunteerRepository) getSubjects(ctx context.Context, volunteerID int64) ([]*models.Subject, error) {
	sql, args, err := r.sb.Select("s.id", "s.name", "s.sort_order", "s.active").
		From("subjects s").
		Join("volunteer_subjects vs ON vs.subject_id = s.id").
		Where(squirrel.Eq{"vs.volunteer_id": volunteerID}).
		OrderBy("s.sort_order ASC", "s.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build volunteer subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing volunteer subjects: %w", err)
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

// attachSubjects loads the subject links for all the given volunteers with
// a single join query.
func (r *VolunteerRepository) attachSubjects(ctx context.Context, volunteers []*models.Volunteer) error {
	if len(volunteers) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Volunteer, len(volunteers))
	ids := make([]int64, 0, len(volunteers))
	for _, v := range volunteers {
		byID[v.ID] = v
		ids = append(ids, v.ID)
	}

	sql, args, err := r.sb.Select("vs.volunteer_id", "s.id", "s.name", "s.sort_order", "s.active").
		From("subjects s").
		Join("volunteer_subjects vs ON vs.subject_id = s.id").
		Where(squirrel.Eq{"vs.volunteer_id": ids}).
		OrderBy("s.sort_order ASC", "s.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build batch volunteer subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error listing volunteer subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var volunteerID int64
		subj := &models.Subject{}
		if err := rows.Scan(&volunteerID, &subj.ID, &subj.Name, &subj.SortOrder, &subj.Active); err != nil {
			return err
		}
		if v, ok := byID[volunteerID]; ok {
			v.Subjects = append(v.Subjects, subj)
		}
	}
	return rows.Err()
}

// CountByStatus returns volunteer counts grouped by status.
func (r *VolunteerRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM volunteers GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting volunteers by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ListAvailableGeolocated returns geolocated volunteers available to take a
// student, for the association map.
func (r *VolunteerRepository) ListAvailableGeolocated(ctx context.Context) ([]*models.Volunteer, error) {
	sql, args, err := r.sb.Select(volunteerColumns...).
		From("volunteers").
		Where(squirrel.Eq{"status": models.VolunteerAvailable}).
		Where("latitude IS NOT NULL").
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build available volunteers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing available volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []*models.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}

// CountGeolocated returns the number of volunteers with coordinates.
func (r *VolunteerRepository) CountGeolocated(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM volunteers WHERE latitude IS NOT NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting geolocated volunteers: %w", err)
	}
	return n, nil
}
