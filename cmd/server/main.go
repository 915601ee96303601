package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "toolshare-reservation-backend/internal/api/http"
	"toolshare-reservation-backend/internal/config"
	"toolshare-reservation-backend/internal/logger"
	"toolshare-reservation-backend/internal/repository/postgres"
	"toolshare-reservation-backend/internal/security"
	"toolshare-reservation-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ToolShare Reservation Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Policy configuration", "allow_early_pickup", cfg.EarlyPickupAllowed())

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services
	reservationSvc := service.NewReservationService(
		store.ReservationRepository,
		store.ToolRepository,
		store.NotificationRepository,
		cfg.EarlyPickupAllowed(),
	)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP server
	router := httpapi.NewRouter(reservationSvc, notificationSvc, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
