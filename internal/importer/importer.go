package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/metrics"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

// Options configures one import run.
type Options struct {
	Mode   Mode
	DryRun bool
	// CityPrefix is the postal-code prefix whose codes encode a district
	// ("13" for Marseille).
	CityPrefix string
}

// Importer drives CSV import runs against the database. The whole run
// happens inside one transaction; each row gets its own savepoint so a
// failing row rolls back alone, and a dry run rolls back the transaction
// at the end instead of committing it.
type Importer struct {
	db *pgxpool.Pool
}

// New creates an Importer on the given pool.
func New(db *pgxpool.Pool) *Importer {
	return &Importer{db: db}
}

// ImportStudents runs the student pipeline over a header-keyed CSV stream.
func (im *Importer) ImportStudents(ctx context.Context, r io.Reader, opts Options) (*Report, error) {
	rows, err := ReadRows(r, StudentProfile)
	if err != nil {
		return nil, err
	}
	return im.run(ctx, "students", rows, opts, importStudentRow)
}

// ImportVolunteers runs the volunteer pipeline over a header-keyed CSV stream.
func (im *Importer) ImportVolunteers(ctx context.Context, r io.Reader, opts Options) (*Report, error) {
	rows, err := ReadRows(r, VolunteerProfile)
	if err != nil {
		return nil, err
	}
	return im.run(ctx, "volunteers", rows, opts, importVolunteerRow)
}

// rowFunc applies one schema-mapped row against transaction-bound stores.
type rowFunc func(ctx context.Context, stores Stores, cache *SubjectCache, row Row, mode Mode, cityPrefix string) (rowOutcome, error)

func (im *Importer) run(ctx context.Context, kind string, rows []Row, opts Options, apply rowFunc) (*Report, error) {
	tx, err := im.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	subjects, err := repositories.NewSubjectRepository(tx).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	cache := NewSubjectCache(subjects)

	report := NewReport(opts.DryRun)
	logger.Info().
		Str("runID", report.RunID).
		Str("kind", kind).
		Int("rows", len(rows)).
		Bool("dryRun", opts.DryRun).
		Msg("Import run started")

	for _, row := range rows {
		report.Total++

		lastName := CleanText(row.Get(FieldLastName))
		firstName := CleanText(row.Get(FieldFirstName))
		if lastName == "" || firstName == "" {
			report.AddSkip(SkipMissingKey)
			logger.Warn().Int("line", row.Line).Msg("Missing natural key, row skipped")
			continue
		}

		outcome, err := applyWithSavepoint(ctx, tx, row, opts, apply, cache)
		if err != nil {
			report.AddError(row.Line, lastName, firstName, err)
			metrics.ImportRowsTotal.WithLabelValues(kind, "error").Inc()
			logger.Error().Err(err).
				Int("line", row.Line).
				Str("lastName", lastName).
				Str("firstName", firstName).
				Msg("Row import failed, continuing")
			continue
		}

		switch outcome {
		case outcomeCreated:
			report.Created++
			metrics.ImportRowsTotal.WithLabelValues(kind, "created").Inc()
		case outcomeUpdated:
			report.Updated++
			metrics.ImportRowsTotal.WithLabelValues(kind, "updated").Inc()
		case outcomeSkippedExists:
			report.AddSkip(SkipAlreadyExists)
			metrics.ImportRowsTotal.WithLabelValues(kind, "skipped").Inc()
		case outcomeSkippedNotFound:
			report.AddSkip(SkipNotFound)
			metrics.ImportRowsTotal.WithLabelValues(kind, "skipped").Inc()
		case outcomeSkippedActive:
			report.AddSkip(SkipAlreadyActive)
			metrics.ImportRowsTotal.WithLabelValues(kind, "skipped").Inc()
		}
	}

	if opts.DryRun {
		if err := tx.Rollback(ctx); err != nil {
			return nil, fmt.Errorf("failed to roll back dry run: %w", err)
		}
	} else if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import transaction: %w", err)
	}

	logger.Info().
		Str("runID", report.RunID).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("skipped", report.SkippedTotal()).
		Int("errors", report.Errors).
		Msg("Import run finished")
	return report, nil
}

// applyWithSavepoint isolates one row in a nested transaction, which pgx
// implements as a savepoint. A failing row rolls back its own changes only;
// the rest of the run is unaffected.
func applyWithSavepoint(ctx context.Context, tx pgx.Tx, row Row, opts Options, apply rowFunc, cache *SubjectCache) (rowOutcome, error) {
	rowTx, err := tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to open row savepoint: %w", err)
	}

	stores := Stores{
		Students:   repositories.NewStudentRepository(rowTx),
		Volunteers: repositories.NewVolunteerRepository(rowTx),
		Subjects:   repositories.NewSubjectRepository(rowTx),
		Pairings:   repositories.NewPairingRepository(rowTx),
	}

	outcome, err := apply(ctx, stores, cache, row, opts.Mode, opts.CityPrefix)
	if err != nil {
		rowTx.Rollback(ctx)
		return 0, err
	}
	if err := rowTx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to release row savepoint: %w", err)
	}
	return outcome, nil
}
