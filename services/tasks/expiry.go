package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"indastreet/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingExpire = "booking:expire"
	TypeBookingSweep  = "booking:sweep"
)

// NewBookingExpireTask builds the delayed deadline check for a booking.
func NewBookingExpireTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.BookingTaskPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("%s:%s:%d", TypeBookingExpire, bookingID, fireAt.Unix())),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ParseBookingPayload decodes the payload of a booking task.
func ParseBookingPayload(task *asynq.Task) (models.BookingTaskPayload, error) {
	var p models.BookingTaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}
	if p.BookingID == "" {
		return p, fmt.Errorf("invalid %s payload: missing bookingId", task.Type())
	}
	return p, nil
}

// Enqueuer is the subset of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ExpiryScheduler enqueues booking deadline checks on asynq.
type ExpiryScheduler struct {
	Client Enqueuer
}

func NewExpiryScheduler(client Enqueuer) *ExpiryScheduler {
	return &ExpiryScheduler{Client: client}
}

// ScheduleExpiry enqueues a check of bookingID at at. Scheduling the same
// check twice is not an error.
func (s *ExpiryScheduler) ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error {
	task, opts, err := NewBookingExpireTask(bookingID, at)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue %s for %s: %w", TypeBookingExpire, bookingID, err)
	}
	return nil
}
