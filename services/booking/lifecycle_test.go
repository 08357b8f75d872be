package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"indastreet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type mockStatusStore struct {
	mock.Mock
}

func (m *mockStatusStore) UpdateStatus(ctx context.Context, id string, current models.BookingStatus, set bson.M) (bool, error) {
	args := m.Called(ctx, id, current, set)
	return args.Bool(0), args.Error(1)
}

func fixedClock() time.Time {
	return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
}

func TestTransition_WritesStatusAndTimestamp(t *testing.T) {
	store := new(mockStatusStore)
	m := &LifecycleManager{Store: store, Now: fixedClock}

	store.On("UpdateStatus", mock.Anything, "BK1", models.StatusPending, bson.M{
		"status":     models.StatusAccepted,
		"acceptedAt": fixedClock(),
		"note":       "x",
	}).Return(true, nil).Once()

	at, err := m.Transition(context.Background(), "BK1", models.StatusPending, models.StatusAccepted, bson.M{"note": "x"})
	require.NoError(t, err)
	assert.Equal(t, fixedClock(), at)
	store.AssertExpectations(t)
}

func TestTransition_InvalidNeverTouchesStore(t *testing.T) {
	store := new(mockStatusStore)
	m := NewLifecycleManager(store)

	for _, tc := range []struct{ from, to models.BookingStatus }{
		{models.StatusPending, models.StatusCompleted},
		{models.StatusPending, models.StatusConfirmed},
		{models.StatusDeclined, models.StatusCompleted},
		{models.StatusExpired, models.StatusAccepted},
		{models.StatusCompleted, models.StatusDeclined},
		{models.StatusAccepted, models.StatusExpired},
		{models.StatusPending, models.StatusCancelled},
	} {
		_, err := m.Transition(context.Background(), "BK1", tc.from, tc.to, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_StaleStatusConflicts(t *testing.T) {
	store := new(mockStatusStore)
	m := &LifecycleManager{Store: store, Now: fixedClock}
	store.On("UpdateStatus", mock.Anything, "BK1", models.StatusAccepted, mock.Anything).Return(false, nil)

	_, err := m.Transition(context.Background(), "BK1", models.StatusAccepted, models.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestTransition_StoreErrorPropagatesUnmodified(t *testing.T) {
	store := new(mockStatusStore)
	m := &LifecycleManager{Store: store, Now: fixedClock}
	storeErr := errors.New("connection reset")
	store.On("UpdateStatus", mock.Anything, "BK1", models.StatusConfirmed, mock.Anything).Return(false, storeErr).Once()

	_, err := m.Transition(context.Background(), "BK1", models.StatusConfirmed, models.StatusCompleted, nil)
	assert.Same(t, storeErr, err)
	store.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestCalculateCommission(t *testing.T) {
	c, p := CalculateCommission(250000)
	assert.Equal(t, 75000.0, c)
	assert.Equal(t, 175000.0, p)

	c, p = CalculateCommission(333)
	assert.Equal(t, 100.0, c)
	assert.Equal(t, 233.0, p)
}

func TestIsCommissionEligible(t *testing.T) {
	now := time.Now()
	done := &models.Booking{Status: models.StatusCompleted, AcceptedAt: &now, ConfirmedAt: &now, CompletedAt: &now}
	assert.True(t, IsCommissionEligible(done))

	skipped := &models.Booking{Status: models.StatusCompleted, AcceptedAt: &now, CompletedAt: &now}
	assert.False(t, IsCommissionEligible(skipped))

	declined := &models.Booking{Status: models.StatusDeclined, AcceptedAt: &now, DeclinedAt: &now}
	assert.False(t, IsCommissionEligible(declined))
	assert.False(t, IsCommissionEligible(nil))
}
