package cron

import (
	"context"
	"errors"
	"log"
	"time"

	"indastreet/config"
	bookingRepo "indastreet/database/repository/booking"
	"indastreet/services/booking"
	"indastreet/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SweepSpec is how often the overdue booking sweep runs.
const SweepSpec = "@every 1m"

// RedisOpt returns the asynq connection for the queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Worker runs the booking expiry handlers and the periodic sweep.
type Worker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

// NewWorker builds the asynq server and scheduler for bookingSvc.
func NewWorker(bookingSvc booking.BookingService, logger *zap.Logger) *Worker {
	redisOpts := RedisOpt()
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	return &Worker{
		srv:       srv,
		scheduler: asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: config.Location()}),
		mux:       NewServeMux(bookingSvc, logger),
		logger:    logger,
	}
}

// NewServeMux routes booking tasks to their handlers.
func NewServeMux(bookingSvc booking.BookingService, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingExpire, handleExpireTask(bookingSvc, logger))
	mux.HandleFunc(tasks.TypeBookingSweep, handleSweepTask(bookingSvc, logger))
	return mux
}

// Start runs the worker and scheduler in the background.
func (w *Worker) Start() error {
	if _, err := w.scheduler.Register(SweepSpec, asynq.NewTask(tasks.TypeBookingSweep, nil)); err != nil {
		return err
	}

	go monitorRedisConnection(w.logger)

	go func() {
		w.logger.Info("[BookingWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := w.srv.Run(w.mux); err != nil {
				w.logger.Error("[BookingWorker] Failed to start worker",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					log.Fatal("[BookingWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.logger.Error("[BookingWorker] Scheduler stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the scheduler and drains the worker.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}

func handleExpireTask(bookingSvc booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseBookingPayload(task)
		if err != nil {
			logger.Error("[ExpireHandler] Invalid payload", zap.Error(err))
			return errors.Join(err, asynq.SkipRetry)
		}

		err = bookingSvc.ExpireIfOverdue(ctx, p.BookingID)
		if errors.Is(err, bookingRepo.ErrNotFound) {
			logger.Warn("[ExpireHandler] Booking no longer exists", zap.String("bookingId", p.BookingID))
			return nil
		}
		if err != nil {
			logger.Error("[ExpireHandler] Failed to expire booking", zap.String("bookingId", p.BookingID), zap.Error(err))
		}
		return err
	}
}

func handleSweepTask(bookingSvc booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, expireErr := bookingSvc.ExpireOverdue(ctx)
		if expireErr != nil {
			logger.Error("[SweepHandler] Sweep failed", zap.Int("moved", n), zap.Error(expireErr))
		}
		settled, reconcileErr := bookingSvc.ReconcileCommissions(ctx)
		if reconcileErr != nil {
			logger.Error("[SweepHandler] Commission reconciliation failed", zap.Int("settled", settled), zap.Error(reconcileErr))
		}
		return errors.Join(expireErr, reconcileErr)
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()
	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("[BookingWorker] Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
