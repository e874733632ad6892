package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
	"github.com/esa-marseille/esa-manager/internal/server"
)

func main() {
	// Missing .env is fine, real deployments use actual environment variables.
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
