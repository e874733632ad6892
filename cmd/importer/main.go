package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/esa-marseille/esa-manager/internal/config"
	"github.com/esa-marseille/esa-manager/internal/db"
	"github.com/esa-marseille/esa-manager/internal/importer"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

func main() {
	var (
		kind       = flag.String("kind", "", "record kind to import: students, volunteers or pairings")
		dryRun     = flag.Bool("dry-run", false, "run the whole import and roll it back instead of committing")
		update     = flag.Bool("update", false, "overwrite existing records with the CSV contents instead of skipping them")
		configPath = flag.String("config", filepath.Join("configs", "config.yaml"), "path to the configuration file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file.csv>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 || *kind == "" {
		flag.Usage()
		os.Exit(2)
	}
	csvPath := flag.Arg(0)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Console output for an interactive CLI run.
	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: true,
	})

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	defer database.Pool.Close()

	file, err := os.Open(csvPath)
	if err != nil {
		logger.Error().Err(err).Str("file", csvPath).Msg("Failed to open CSV file")
		os.Exit(1)
	}
	defer file.Close()

	mode := importer.CreateOnly
	if *update {
		mode = importer.CreateOrUpdate
	}
	opts := importer.Options{
		Mode:       mode,
		DryRun:     *dryRun,
		CityPrefix: cfg.Import.CityPrefix,
	}

	im := importer.New(database.Pool)
	ctx := context.Background()

	var report *importer.Report
	switch *kind {
	case "students":
		report, err = im.ImportStudents(ctx, file, opts)
	case "volunteers":
		report, err = im.ImportVolunteers(ctx, file, opts)
	case "pairings":
		report, err = im.ImportPairings(ctx, file, opts)
	default:
		fmt.Fprintf(os.Stderr, "unknown kind %q: expected students, volunteers or pairings\n", *kind)
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Str("kind", *kind).Msg("Import failed")
		os.Exit(1)
	}

	// Row-level errors are reported in the summary, not as a failure:
	// the run itself committed (or rolled back in dry-run mode).
	fmt.Println(report.Summary())
}
