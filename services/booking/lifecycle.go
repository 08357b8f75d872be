package booking

import (
	"context"
	"time"

	"indastreet/metrics"
	"indastreet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// StatusStore performs the conditional status write.
type StatusStore interface {
	UpdateStatus(ctx context.Context, id string, current models.BookingStatus, set bson.M) (bool, error)
}

// LifecycleManager is the only writer of booking status.
type LifecycleManager struct {
	Store StatusStore
	Now   func() time.Time
}

// NewLifecycleManager returns a manager writing through store.
func NewLifecycleManager(store StatusStore) *LifecycleManager {
	return &LifecycleManager{Store: store, Now: time.Now}
}

// CanTransition reports whether to is reachable from from in one step.
func CanTransition(from, to models.BookingStatus) bool {
	return from.CanTransitionTo(to)
}

// Transition moves booking id from current to target and stamps
// <target>At. extra is written in the same update. The write only lands if
// the stored status still equals current; otherwise ErrStatusConflict is
// returned and nothing changes. Store errors are returned as they are.
func (m *LifecycleManager) Transition(ctx context.Context, id string, current, target models.BookingStatus, extra bson.M) (time.Time, error) {
	ctx, span := otel.Tracer("indastreet/booking").Start(ctx, "booking.Transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", id),
		attribute.String("booking.from", current.String()),
		attribute.String("booking.to", target.String()),
	)

	if !CanTransition(current, target) {
		metrics.RecordTransition(current.String(), target.String(), "invalid")
		span.SetStatus(codes.Error, ErrInvalidTransition.Error())
		return time.Time{}, ErrInvalidTransition
	}

	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	set := bson.M{}
	for k, v := range extra {
		set[k] = v
	}
	set["status"] = target
	set[target.TimestampField()] = now

	matched, err := m.Store.UpdateStatus(ctx, id, current, set)
	if err != nil {
		metrics.RecordTransition(current.String(), target.String(), "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return time.Time{}, err
	}
	if !matched {
		metrics.RecordTransition(current.String(), target.String(), "conflict")
		span.SetStatus(codes.Error, ErrStatusConflict.Error())
		return time.Time{}, ErrStatusConflict
	}

	metrics.RecordTransition(current.String(), target.String(), "ok")
	return now, nil
}
