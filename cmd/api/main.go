package main

import (
	"os"

	"github.com/tanmayk/meritalloc/internal/pkg/logger"
	"github.com/tanmayk/meritalloc/internal/server"
)

// @title MeritAlloc API
// @version 1.0
// @description Merit-ordered round-robin allocation of students to faculty supervisors, with per-faculty preference statistics and study-group distribution.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Use the default logger set up by the logger package's init
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
