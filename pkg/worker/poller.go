package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/service/reminder"
	"github.com/medremind/medremind-api/pkg/logger"
	"github.com/medremind/medremind-api/pkg/messaging"
)

type ReminderPollerConfig struct {
	Interval  time.Duration
	BatchSize int
	Channel   string
}

// ReminderPoller periodically pulls due reminders, publishes them to the
// message broker and marks them sent. Downstream consumers own the actual
// delivery; a published message is this system's boundary.
type ReminderPoller struct {
	reminders *reminder.Service
	broker    messaging.Broker
	config    ReminderPollerConfig
	logger    *logger.Logger
}

func NewReminderPoller(
	reminders *reminder.Service,
	broker messaging.Broker,
	config ReminderPollerConfig,
	logger *logger.Logger,
) *ReminderPoller {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = reminder.DefaultLimit
	}
	if config.Channel == "" {
		config.Channel = "reminders.due"
	}

	return &ReminderPoller{
		reminders: reminders,
		broker:    broker,
		config:    config,
		logger:    logger,
	}
}

func (p *ReminderPoller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.logger.Info("starting reminder poller", "interval", p.config.Interval.String())

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down reminder poller")
			return
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.logger.Error(err, "failed to process due reminders")
			}
		}
	}
}

func (p *ReminderPoller) poll(ctx context.Context) error {
	due, err := p.reminders.FetchPending(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	published := make([]int64, 0, len(due))
	for _, detail := range due {
		if err := p.broker.Publish(ctx, p.config.Channel, detail); err != nil {
			// Unpublished reminders stay pending and are retried next tick.
			p.logger.Error(err, "failed to publish reminder", "reminder_id", detail.ID)
			continue
		}
		published = append(published, detail.ID)
	}
	if len(published) == 0 {
		return fmt.Errorf("no reminders published out of %d due", len(due))
	}

	result, err := p.reminders.BulkSetStatus(ctx, model.ReminderFieldSent, published)
	if err != nil {
		return fmt.Errorf("failed to mark reminders sent: %w", err)
	}

	p.logger.Info("published due reminders", "published", len(published), "marked_sent", len(result.UpdatedIDs))
	return nil
}
