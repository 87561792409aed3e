package cron

import (
	"context"
	"errors"
	"fmt"

	"medibook/services/notification"
	"medibook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NoticeWorker processes queued provider notifications.
type NoticeWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewNoticeWorker builds the asynq server and registers every handler.
func NewNoticeWorker(redisOpt asynq.RedisConnOpt, notifSvc notification.NotificationService, logger *zap.Logger) *NoticeWorker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
		Logger:   logger.Sugar(),
		LogLevel: asynq.WarnLevel,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeProviderPaidNotice, handleProviderPaidTask(notifSvc, logger))

	return &NoticeWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background.
func (w *NoticeWorker) Start() error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("notice worker: %w", err)
	}
	w.logger.Info("notice worker started")
	return nil
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *NoticeWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("notice worker stopped")
}

func handleProviderPaidTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseProviderPaidPayload(task)
		if err != nil {
			logger.Error("dropping provider notice", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		log := logger.With(zap.String("appointmentId", p.Appointment.ID), zap.String("providerId", p.Appointment.ProviderID))
		if err := notifSvc.NotifyProviderPaid(ctx, &p.Appointment); err != nil {
			if errors.Is(err, notification.ErrNoDeviceToken) {
				log.Info("provider has no device registered, notice skipped")
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			log.Warn("provider notice failed, will retry", zap.Error(err))
			return err
		}
		log.Debug("provider notice delivered")
		return nil
	}
}
