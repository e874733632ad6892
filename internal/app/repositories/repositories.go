package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repositories bound to a transaction see its uncommitted rows, which the
// CSV importer relies on for intra-run duplicate detection.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository     *StudentRepository
	VolunteerRepository   *VolunteerRepository
	SubjectRepository     *SubjectRepository
	PairingRepository     *PairingRepository
	UserProfileRepository *UserProfileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		StudentRepository:     NewStudentRepository(db),
		VolunteerRepository:   NewVolunteerRepository(db),
		SubjectRepository:     NewSubjectRepository(db),
		PairingRepository:     NewPairingRepository(db),
		UserProfileRepository: NewUserProfileRepository(db),
	}
}

// WithTx returns a repository set bound to the given transaction.
func (r *Repositories) WithTx(tx pgx.Tx) *Repositories {
	return NewRepositories(tx)
}

// escapeLike neutralizes LIKE metacharacters in a probe so a name
// containing "%" or "_" matches literally instead of as a wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
