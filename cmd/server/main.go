package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"bboard/internal/config"
	"bboard/internal/db"
	"bboard/internal/http/router"
	"bboard/internal/security"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	sessions := security.NewSessionManager(cfg.SessionSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Setup(database, sessions, logger),

		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	logger.Info("starting server", "addr", srv.Addr, "driver", cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
