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
	"golang.org/x/crypto/bcrypt"

	"github.com/medremind/medremind-api/internal/config"
	"github.com/medremind/medremind-api/internal/handler"
	authHandler "github.com/medremind/medremind-api/internal/handler/auth"
	medicineHandler "github.com/medremind/medremind-api/internal/handler/medicine"
	prescriptionHandler "github.com/medremind/medremind-api/internal/handler/prescription"
	reminderHandler "github.com/medremind/medremind-api/internal/handler/reminder"
	"github.com/medremind/medremind-api/internal/middleware"
	"github.com/medremind/medremind-api/internal/repository/postgres"
	"github.com/medremind/medremind-api/internal/router"
	medicineService "github.com/medremind/medremind-api/internal/service/medicine"
	prescriptionService "github.com/medremind/medremind-api/internal/service/prescription"
	reminderService "github.com/medremind/medremind-api/internal/service/reminder"
	userService "github.com/medremind/medremind-api/internal/service/user"
	"github.com/medremind/medremind-api/pkg/auth"
	"github.com/medremind/medremind-api/pkg/logger"
	"github.com/medremind/medremind-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	medicineRepo := postgres.NewMedicineRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	userSvc := userService.NewService(userRepo, hasher, jwtSvc, appLogger)
	medicineSvc := medicineService.NewService(medicineRepo, appLogger)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, reminderRepo, appLogger)
	reminderSvc := reminderService.NewService(reminderRepo, appLogger)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	authH := authHandler.NewHandler(userSvc)
	medicineH := medicineHandler.NewHandler(medicineSvc)
	prescriptionH := prescriptionHandler.NewHandler(prescriptionSvc)
	reminderH := reminderHandler.NewHandler(reminderSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.NewRouter(
		authMiddleware,
		authH,
		healthH,
		router.Config{
			RateLimitRPS:   50,
			RateLimitBurst: 100,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "medremind",
		},
		medicineH,
		prescriptionH,
		reminderH,
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
