package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medibook/clinic-api/config"
	"github.com/medibook/clinic-api/internal/handler"
	adminHandler "github.com/medibook/clinic-api/internal/handler/admin"
	appointmentHandler "github.com/medibook/clinic-api/internal/handler/appointment"
	authHandler "github.com/medibook/clinic-api/internal/handler/auth"
	doctorHandler "github.com/medibook/clinic-api/internal/handler/doctor"
	"github.com/medibook/clinic-api/internal/middleware"
	"github.com/medibook/clinic-api/internal/repository/postgres"
	"github.com/medibook/clinic-api/internal/router"
	adminService "github.com/medibook/clinic-api/internal/service/admin"
	appointmentService "github.com/medibook/clinic-api/internal/service/appointment"
	authService "github.com/medibook/clinic-api/internal/service/auth"
	eventService "github.com/medibook/clinic-api/internal/service/event"
	scheduleService "github.com/medibook/clinic-api/internal/service/schedule"
	"github.com/medibook/clinic-api/pkg/auth"
	"github.com/medibook/clinic-api/pkg/logger"
	"github.com/medibook/clinic-api/pkg/metrics"
	"github.com/medibook/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.NewMetrics(cfg.Monitoring.MetricsNamespace, "api")

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewHasher(security.DefaultCost)

	eventSvc := eventService.NewService(outboxRepo, appLogger)
	scheduleSvc := scheduleService.NewService(doctorRepo, appointmentRepo, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, scheduleSvc, eventSvc, m)
	authSvc := authService.NewService(doctorRepo, patientRepo, adminRepo, jwtSvc, hasher)
	adminSvc := adminService.NewService(appointmentRepo, doctorRepo, patientRepo)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handler.RegisterValidations()

	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, scheduleSvc)
	doctorH := doctorHandler.NewHandler(appointmentSvc, scheduleSvc, doctorRepo)
	adminH := adminHandler.NewHandler(appointmentSvc, adminSvc)

	r := router.New(
		authMiddleware,
		authH,
		appointmentH,
		doctorH,
		adminH,
		h,
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: cfg.Monitoring.MetricsNamespace,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
