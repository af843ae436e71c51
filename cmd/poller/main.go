package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medremind/medremind-api/internal/config"
	"github.com/medremind/medremind-api/internal/repository/postgres"
	reminderService "github.com/medremind/medremind-api/internal/service/reminder"
	"github.com/medremind/medremind-api/pkg/logger"
	"github.com/medremind/medremind-api/pkg/messaging/redis"
	"github.com/medremind/medremind-api/pkg/worker"
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

	broker, err := redis.NewRedisBroker(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	reminderRepo := postgres.NewReminderRepository(db)
	reminderSvc := reminderService.NewService(reminderRepo, appLogger)

	poller := worker.NewReminderPoller(reminderSvc, broker, worker.ReminderPollerConfig{
		Interval:  time.Duration(cfg.Poller.IntervalSeconds) * time.Second,
		BatchSize: cfg.Poller.BatchSize,
		Channel:   cfg.Poller.Channel,
	}, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
}
