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

var studentColumns = []string{
	"id", "last_name", "first_name", "phone",
	"parent_last_name", "parent_first_name", "parent_phone", "parent_email",
	"grade_level", "school",
	"street_number", "street_name", "address_complement", "postal_code", "city", "district",
	"latitude", "longitude",
	"status", "entry_status", "notes", "co_manager_id", "last_visit_at",
	"created_at", "updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row interface{ Scan(dest ...any) error }) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID, &s.LastName, &s.FirstName, &s.Phone,
		&s.ParentLastName, &s.ParentFirstName, &s.ParentPhone, &s.ParentEmail,
		&s.GradeLevel, &s.School,
		&s.StreetNumber, &s.StreetName, &s.AddressComplement, &s.PostalCode, &s.City, &s.District,
		&s.Latitude, &s.Longitude,
		&s.Status, &s.EntryStatus, &s.Notes, &s.CoManagerID, &s.LastVisitAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new student and fills in its generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns(
			"last_name", "first_name", "phone",
			"parent_last_name", "parent_first_name", "parent_phone", "parent_email",
			"grade_level", "school",
			"street_number", "street_name", "address_complement", "postal_code", "city", "district",
			"latitude", "longitude",
			"status", "entry_status", "notes", "co_manager_id", "last_visit_at",
		).
		Values(
			student.LastName, student.FirstName, student.Phone,
			student.ParentLastName, student.ParentFirstName, student.ParentPhone, student.ParentEmail,
			student.GradeLevel, student.School,
			student.StreetNumber, student.StreetName, student.AddressComplement, student.PostalCode, student.City, student.District,
			student.Latitude, student.Longitude,
			student.Status, student.EntryStatus, student.Notes, student.CoManagerID, student.LastVisitAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}
	return student.ID, nil
}

// GetByID retrieves a student by ID, subjects included.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	student.Subjects, err = r.getSubjects(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// StudentFilter narrows GetAll results. Zero values mean "no filter".
type StudentFilter struct {
	Status   models.StudentStatus
	District string
}

// GetAll retrieves students ordered by name, optionally filtered.
func (r *StudentRepository) GetAll(ctx context.Context, filter StudentFilter) ([]*models.Student, error) {
	q := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("last_name ASC", "first_name ASC")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.District != "" {
		q = q.Where(squirrel.Eq{"district": filter.District})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachSubjects(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// Update overwrites every mutable column of the student row. Callers that
// want to keep a field must pass its current value; an empty field erases
// what was stored before.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("last_name", student.LastName).
		Set("first_name", student.FirstName).
		Set("phone", student.Phone).
		Set("parent_last_name", student.ParentLastName).
		Set("parent_first_name", student.ParentFirstName).
		Set("parent_phone", student.ParentPhone).
		Set("parent_email", student.ParentEmail).
		Set("grade_level", student.GradeLevel).
		Set("school", student.School).
		Set("street_number", student.StreetNumber).
		Set("street_name", student.StreetName).
		Set("address_complement", student.AddressComplement).
		Set("postal_code", student.PostalCode).
		Set("city", student.City).
		Set("district", student.District).
		Set("latitude", student.Latitude).
		Set("longitude", student.Longitude).
		Set("status", student.Status).
		Set("entry_status", student.EntryStatus).
		Set("notes", student.Notes).
		Set("co_manager_id", student.CoManagerID).
		Set("last_visit_at", student.LastVisitAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdateStatus changes only the status column.
func (r *StudentRepository) UpdateStatus(ctx context.Context, id int64, status models.StudentStatus) error {
	sql, args, err := r.sb.Update("students").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdateGeolocation stores new coordinates and the normalized district.
func (r *StudentRepository) UpdateGeolocation(ctx context.Context, id int64, lat, lng any, district string) error {
	sql, args, err := r.sb.Update("students").
		Set("latitude", lat).
		Set("longitude", lng).
		Set("district", district).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student geolocation query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student geolocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student. Pairings referencing it go away through the
// ON DELETE CASCADE constraint.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// FindExact looks up a student by case-insensitive exact name match.
// Returns apperrors.ErrStudentNotFound when no row matches.
func (r *StudentRepository) FindExact(ctx context.Context, lastName, firstName string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Expr("LOWER(last_name) = LOWER(?)", lastName)).
		Where(squirrel.Expr("LOWER(first_name) = LOWER(?)", firstName)).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error finding student: %w", err)
	}
	return student, nil
}

// FindContaining looks up a student whose name contains, or is contained in,
// the given name, case-insensitively. The lowest ID wins when several rows
// match. Returns apperrors.ErrStudentNotFound when no row matches.
func (r *StudentRepository) FindContaining(ctx context.Context, lastName, firstName string) (*models.Student, error) {
	last := strings.ToLower(lastName)
	first := strings.ToLower(firstName)

	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Expr(
			"(LOWER(last_name) LIKE '%' || ? || '%' OR ? LIKE '%' || LOWER(last_name) || '%')", escapeLike(last), last)).
		Where(squirrel.Expr(
			"(LOWER(first_name) LIKE '%' || ? || '%' OR ? LIKE '%' || LOWER(first_name) || '%')", escapeLike(first), first)).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error finding student: %w", err)
	}
	return student, nil
}

// ReplaceSubjects rewrites the student's subject links.
func (r *StudentRepository) ReplaceSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error {
	delSQL, delArgs, err := r.sb.Delete("student_subjects").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear student subjects query: %w", err)
	}
	if _, err := r.db.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing student subjects: %w", err)
	}

	if len(subjectIDs) == 0 {
		return nil
	}

	ins := r.sb.Insert("student_subjects").Columns("student_id", "subject_id")
	for _, sid := range subjectIDs {
		ins = ins.Values(studentID, sid)
	}
	insSQL, insArgs, err := ins.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert student subjects query: %w", err)
	}
	if _, err := r.db.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("error inserting student subjects: %w", err)
	}
	return nil
}

func (r *StudentRepository) getSubjects(ctx context.Context, studentID int64) ([]*models.Subject, error) {
	sql, args, err := r.sb.Select("s.id", "s.name", "s.sort_order", "s.active").
		From("subjects s").
		Join("student_subjects ss ON ss.subject_id = s.id").
		Where(squirrel.Eq{"ss.student_id": studentID}).
		OrderBy("s.sort_order ASC", "s.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing student subjects: %w", err)
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

// attachSubjects loads the subject links for all the given students with a
// single join query.
func (r *StudentRepository) attachSubjects(ctx context.Context, students []*models.Student) error {
	if len(students) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Student, len(students))
	ids := make([]int64, 0, len(students))
	for _, s := range students {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	sql, args, err := r.sb.Select("ss.student_id", "s.id", "s.name", "s.sort_order", "s.active").
		From("subjects s").
		Join("student_subjects ss ON ss.subject_id = s.id").
		Where(squirrel.Eq{"ss.student_id": ids}).
		OrderBy("s.sort_order ASC", "s.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build batch student subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error listing student subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var studentID int64
		subj := &models.Subject{}
		if err := rows.Scan(&studentID, &subj.ID, &subj.Name, &subj.SortOrder, &subj.Active); err != nil {
			return err
		}
		if s, ok := byID[studentID]; ok {
			s.Subjects = append(s.Subjects, subj)
		}
	}
	return rows.Err()
}

// CountByStatus returns student counts grouped by status.
func (r *StudentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM students GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting students by status: %w", err)
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

// CountByDistrict returns student counts grouped by district, skipping
// students without one.
func (r *StudentRepository) CountByDistrict(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT district, COUNT(*) FROM students WHERE district <> '' GROUP BY district`)
	if err != nil {
		return nil, fmt.Errorf("error counting students by district: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var district string
		var n int64
		if err := rows.Scan(&district, &n); err != nil {
			return nil, err
		}
		counts[district] = n
	}
	return counts, rows.Err()
}

// CountGeolocated returns the number of students with coordinates.
func (r *StudentRepository) CountGeolocated(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE latitude IS NOT NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting geolocated students: %w", err)
	}
	return n, nil
}

// ListWaitingGeolocated returns geolocated students still waiting for a
// volunteer, for the association map.
func (r *StudentRepository) ListWaitingGeolocated(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"status": models.StudentToBeMatched}).
		Where("latitude IS NOT NULL").
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build waiting students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing waiting students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
