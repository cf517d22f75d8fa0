package main

import (
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/gcu-hr/attendance-reconciler/internal"
	"github.com/gcu-hr/attendance-reconciler/internal/config"
)

func main() {
	// load values from .env into the system
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found")
	}

	cfg, err := config.NewApplicationConfig()
	if err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel())
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel())
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	server := internal.SetupServer(cfg)
	server.Start("", cfg.ServerPort())
}
