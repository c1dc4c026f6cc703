package main

import (
	"os"

	"github.com/yigit/kaddem/internal/config"
	"github.com/yigit/kaddem/internal/pkg/logger"
	"github.com/yigit/kaddem/internal/server"
)

// @title Kaddem Dashboard API
// @version 1.0
// @description Read-mostly dashboard over the Kaddem university backend
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description HS256 token, required only when server.auth_secret is set

func main() {
	configPath := os.Getenv("KADDEM_CONFIG")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	srv, err := server.NewServer(configPath)
	if err != nil {
		// Use the default logger setup by the logger package's init
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
