package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/esa-marseille/esa-manager/internal/app/controllers"
	appMigrations "github.com/esa-marseille/esa-manager/internal/app/migrations"
	appRepos "github.com/esa-marseille/esa-manager/internal/app/repositories"
	appRoutes "github.com/esa-marseille/esa-manager/internal/app/routes"
	appServices "github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/config"
	"github.com/esa-marseille/esa-manager/internal/db"
	appMiddleware "github.com/esa-marseille/esa-manager/internal/middleware"
	pkgAuth "github.com/esa-marseille/esa-manager/internal/pkg/auth"
	"github.com/esa-marseille/esa-manager/internal/pkg/geocode"
	"github.com/esa-marseille/esa-manager/internal/pkg/helpers"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
	"github.com/esa-marseille/esa-manager/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	StudentService      appServices.StudentService
	VolunteerService    appServices.VolunteerService
	SubjectService      appServices.SubjectService
	PairingService      appServices.PairingService
	StatsService        appServices.StatsService
	AuthController      *appControllers.AuthController
	StudentController   *appControllers.StudentController
	VolunteerController *appControllers.VolunteerController
	SubjectController   *appControllers.SubjectController
	PairingController   *appControllers.PairingController
	MapController       *appControllers.MapController
	ExportController    *appControllers.ExportController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Geocoder            geocode.Geocoder
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if fromEnv := os.Getenv("CONFIG_PATH"); fromEnv != "" {
		configPath = fromEnv
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the reference data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services and
// controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	geocodeTimeout := helpers.ParseDuration(cfg.Geocoder.Timeout, 5*time.Second)
	deps.Geocoder = geocode.NewClient(cfg.Geocoder.BaseURL, geocodeTimeout)

	cityPrefix := cfg.Import.CityPrefix

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserProfileRepository, deps.JWTService)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.Geocoder, cityPrefix)
	deps.VolunteerService = appServices.NewVolunteerService(deps.Repos.VolunteerRepository, deps.Geocoder, cityPrefix)
	deps.SubjectService = appServices.NewSubjectService(deps.Repos.SubjectRepository)
	deps.PairingService = appServices.NewPairingService(
		deps.Repos.PairingRepository,
		deps.Repos.StudentRepository,
		deps.Repos.VolunteerRepository,
	)
	deps.StatsService = appServices.NewStatsService(
		deps.Repos.StudentRepository,
		deps.Repos.VolunteerRepository,
		deps.Repos.PairingRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserProfileRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.VolunteerController = appControllers.NewVolunteerController(deps.VolunteerService)
	deps.SubjectController = appControllers.NewSubjectController(deps.SubjectService)
	deps.PairingController = appControllers.NewPairingController(deps.PairingService)
	deps.MapController = appControllers.NewMapController(deps.StatsService)
	deps.ExportController = appControllers.NewExportController(deps.StudentService, deps.VolunteerService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.RequestMetrics())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.VolunteerController,
		deps.SubjectController,
		deps.PairingController,
		deps.MapController,
		deps.ExportController,
		deps.AuthMiddleware,
	)

	return router
}
