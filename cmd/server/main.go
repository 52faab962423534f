package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/blog-platform/internal/api"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/logging"
	"github.com/dom/blog-platform/internal/repository/postgres"
	"github.com/dom/blog-platform/internal/service"
	"github.com/dom/blog-platform/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.Environment)

	// Initialize database
	dbLogLevel := logger.Warn
	if cfg.IsProduction() {
		dbLogLevel = logger.Error
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, dbLogLevel, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg, hub, log)

	var reaper *service.SessionReaper
	if cfg.SessionReapInterval > 0 {
		reaper = service.NewSessionReaper(services.Sessions, cfg.SessionReapInterval, log)
		reaper.Start()
	}

	// Initialize router
	router := api.NewRouter(services, hub, cfg, log)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if reaper != nil {
		reaper.Stop()
	}
	hub.Stop()

	if err := postgres.Close(db); err != nil {
		log.WithError(err).Warn("Failed to close database")
	}

	log.Info("Server stopped")
}
