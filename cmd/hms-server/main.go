package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/AarneshKhaitan/SC2002-OODP/internal/inventory"
	"github.com/AarneshKhaitan/SC2002-OODP/internal/outcome"
	"github.com/AarneshKhaitan/SC2002-OODP/internal/scheduling"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/auth"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/config"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/database"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting HMS server")

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.CreateSchema(ctx); err != nil {
		log.WithError(err).Error("Failed to create database schema")
		os.Exit(1)
	}

	// Initialize monitoring
	metrics := monitoring.NewMetricsCollector("hms")
	health := monitoring.NewHealthManager("hms")
	health.Register("database", monitoring.DatabaseChecker("database", db.Health))

	// Build the service graph
	store := scheduling.NewStore()
	calendar := scheduling.NewCalendar(cfg.Scheduling.WorkingDayStartHour, cfg.Scheduling.WorkingDayEndHour, log)
	appointmentRepo := scheduling.NewRepository(db, log)
	schedulingService := scheduling.New(cfg, log, store, calendar, appointmentRepo, metrics)

	inventoryRepo := inventory.NewPostgresRepository(db, log)
	inventoryService := inventory.NewService(inventoryRepo, log)

	outcomeRepo := outcome.NewRepository(db, log)
	recorder := outcome.NewRecorder(store, inventoryService, outcomeRepo, log)

	// Restore state from the database
	if err := schedulingService.LoadFromRepository(ctx); err != nil {
		log.WithError(err).Error("Failed to load appointments")
		os.Exit(1)
	}
	if err := inventoryService.LoadFromRepository(ctx); err != nil {
		log.WithError(err).Error("Failed to load inventory")
		os.Exit(1)
	}
	if err := recorder.LoadFromRepository(ctx); err != nil {
		log.WithError(err).Error("Failed to load outcome records")
		os.Exit(1)
	}

	// Setup router
	router := mux.NewRouter()
	router.Use(monitoring.HTTPMiddleware(metrics, log))

	if cfg.Monitoring.Enabled {
		router.Handle(cfg.Monitoring.MetricsPath, metrics.Handler()).Methods("GET")
	}
	router.Handle(cfg.Monitoring.HealthPath, health.Handler()).Methods("GET")

	validator := auth.NewTokenValidator(cfg.JWT.SecretKey, cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenTTL)*time.Second)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware(validator, log))

	schedulingService.RegisterRoutes(api)
	recorder.RegisterRoutes(api)
	inventoryService.RegisterRoutes(api)

	// Setup HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start HTTP server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down HMS server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("HMS server stopped")
}
