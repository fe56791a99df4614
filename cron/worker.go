package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ceverett10/holibob-booking/config"
	"github.com/ceverett10/holibob-booking/services/booking"
	"github.com/ceverett10/holibob-booking/utils"
)

// TypeConfirmationWatch is the asynq task that polls a committed booking to
// a terminal state out-of-band, for callers that do not want to hold a
// request open while the supplier confirms.
const TypeConfirmationWatch = "booking:confirmation"

type confirmationPayload struct {
	BookingID string `json:"bookingId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient builds the asynq client used to enqueue watch tasks.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// EnqueueConfirmationWatch schedules a background confirmation poll for the
// given booking id.
func EnqueueConfirmationWatch(client *asynq.Client, bookingID string) error {
	payload, err := json.Marshal(confirmationPayload{BookingID: bookingID})
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation payload: %w", err)
	}
	task := asynq.NewTask(TypeConfirmationWatch, payload)
	if _, err := client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue confirmation watch for booking %s: %w", bookingID, err)
	}
	return nil
}

// Worker runs the background confirmation watcher.
type Worker struct {
	srv          *asynq.Server
	orchestrator booking.Orchestrator
}

func NewWorker(orchestrator booking.Orchestrator) *Worker {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	return &Worker{srv: srv, orchestrator: orchestrator}
}

// Run blocks serving confirmation-watch tasks.
func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeConfirmationWatch, w.handleConfirmationWatch)
	utils.GetLogger().Info("confirmation watcher starting")
	return w.srv.Run(mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func (w *Worker) handleConfirmationWatch(ctx context.Context, t *asynq.Task) error {
	logger := utils.GetLogger()

	var payload confirmationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("malformed confirmation payload: %v: %w", err, asynq.SkipRetry)
	}

	b, err := w.orchestrator.WaitForConfirmation(ctx, payload.BookingID, booking.ConfirmationOptions{})
	if err != nil {
		var terminal *booking.TerminalStateError
		var timeout *booking.ConfirmationTimeoutError
		switch {
		case errors.As(err, &terminal):
			// The booking outcome is final; re-running the task cannot
			// change it.
			logger.Warn("booking reached terminal state during watch",
				zap.String("bookingId", payload.BookingID),
				zap.String("state", string(terminal.State)))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		case errors.As(err, &timeout):
			logger.Warn("confirmation watch exhausted polling window",
				zap.String("bookingId", payload.BookingID))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		default:
			// Transport failures are left to asynq's retry schedule.
			return err
		}
	}

	logger.Info("confirmation watch finished",
		zap.String("bookingId", b.ID),
		zap.String("state", string(b.State)))
	return nil
}
