package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/esa-marseille/esa-manager/internal/app/models"
	appRepos "github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/auth"
)

// defaultSubject is one entry of the reference subject catalogue.
type defaultSubject struct {
	name      string
	sortOrder int
}

// Subject catalogue used by the association. Sort order groups the list:
// core school subjects first, then primary-level basics, then transversal
// skills, with catch-all entries at the end.
var defaultSubjects = []defaultSubject{
	{"Français", 1},
	{"Mathématiques", 2},
	{"Anglais", 3},
	{"Espagnol", 4},
	{"Allemand", 5},
	{"Histoire-Géographie", 6},
	{"Sciences (SVT)", 7},
	{"Physique-Chimie", 8},
	{"Philosophie", 9},
	{"Économie", 10},

	{"Lecture", 20},
	{"Écriture", 21},
	{"Compréhension", 22},
	{"Orthographe", 23},
	{"Calcul", 24},
	{"Conjugaison", 25},
	{"Grammaire", 26},

	{"Méthodologie", 30},
	{"Concentration", 31},
	{"Organisation", 32},
	{"Compréhension des consignes", 33},
	{"Mémoire", 34},
	{"Orientation", 35},

	{"Aide aux devoirs (toutes matières)", 90},
	{"Autre", 99},
}

// CreateDefaultData seeds the subject catalogue and, when the user table is
// empty and bootstrap credentials are provided, an initial admin account.
// Seeding is idempotent: existing rows are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	subjectRepo := appRepos.NewSubjectRepository(dbPool)
	userRepo := appRepos.NewUserProfileRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (subjects, admin account)...")
	var finalErr error

	for _, s := range defaultSubjects {
		if _, err := subjectRepo.GetOrCreate(ctx, s.name, s.sortOrder); err != nil {
			lgr.Error().Err(err).Str("subject", s.name).Msg("Error seeding subject")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := seedAdminAccount(ctx, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// seedAdminAccount creates the first admin user from ADMIN_USERNAME and
// ADMIN_PASSWORD when no accounts exist yet. Without those variables the
// step is silently skipped.
func seedAdminAccount(ctx context.Context, userRepo *appRepos.UserProfileRepository, lgr zerolog.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	existing, err := userRepo.GetAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing accounts")
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &appModels.UserProfile{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if _, err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrUsernameExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating bootstrap admin account")
		return err
	}

	lgr.Info().Str("username", username).Msg("Bootstrap admin account created")
	return nil
}
