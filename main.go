package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/taskvault-be/internal/api"
	"github.com/isdelr/taskvault-be/internal/auth"
	"github.com/isdelr/taskvault-be/internal/config"
	"github.com/isdelr/taskvault-be/internal/database"
	"github.com/isdelr/taskvault-be/internal/logger"
	"github.com/isdelr/taskvault-be/internal/maintenance"
	"github.com/isdelr/taskvault-be/internal/monitoring"
	"github.com/isdelr/taskvault-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db, cfg.BcryptCost)
	todoService := services.NewTodoService(db)
	eventService := services.NewEventService(db)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Set up and run the background backup runner
	backupRunner, err := maintenance.NewBackupRunner(db, cfg.BackupPath, cfg.BackupSchedule, cfg.BackupRetention)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backup runner")
	}
	go backupRunner.Run()

	// Set up router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Tokens:         tokenManager,
		Users:          userService,
		Todos:          todoService,
		Events:         eventService,
		Stats:          monitoring.NewStatsCollector(),
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: 2 * cfg.RequestTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	backupRunner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
