package proximity

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"indastreet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	at  *time.Time
	err error
}

func (f fakeFinder) FirstCompletedAt(context.Context, string, string) (*time.Time, error) {
	return f.at, f.err
}

type fakeRecorder struct {
	saved []models.ProximityViolation
}

func (f *fakeRecorder) CreateProximityViolation(_ context.Context, v models.ProximityViolation) error {
	f.saved = append(f.saved, v)
	return nil
}

func point(lon, lat float64) models.GeoPoint {
	return models.GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

func TestDistanceMeters(t *testing.T) {
	// One thousandth of a degree of latitude is roughly 111m.
	d := DistanceMeters(point(115.2, -8.65), point(115.2, -8.651))
	assert.InDelta(t, 111.2, d, 0.5)

	assert.True(t, math.IsNaN(DistanceMeters(models.GeoPoint{}, point(0, 0))))
}

func TestCheck_RecordsViolationWhenTracked(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := now.Add(-48 * time.Hour)
	rec := &fakeRecorder{}
	svc := &DefaultProximityService{
		Bookings:   fakeFinder{at: &first},
		Violations: rec,
		Now:        func() time.Time { return now },
	}

	// ~5.5m apart.
	res, err := svc.Check(context.Background(), models.ProximityCheckRequest{
		CustomerID:       "c1",
		ProviderID:       "p1",
		CustomerLocation: point(115.2, -8.65),
		ProviderLocation: point(115.2, -8.65005),
	})
	require.NoError(t, err)
	assert.True(t, res.TrackingActive)
	assert.Equal(t, int(Tier3), res.Tier)
	require.Len(t, rec.saved, 1)
	assert.Equal(t, 3, rec.saved[0].Tier)
}

func TestCheck_GracePeriodSkipsRecording(t *testing.T) {
	now := time.Now()
	first := now.Add(-time.Hour)
	rec := &fakeRecorder{}
	svc := &DefaultProximityService{Bookings: fakeFinder{at: &first}, Violations: rec}

	res, err := svc.Check(context.Background(), models.ProximityCheckRequest{
		CustomerID:       "c1",
		ProviderID:       "p1",
		CustomerLocation: point(115.2, -8.65),
		ProviderLocation: point(115.2, -8.65),
	})
	require.NoError(t, err)
	assert.False(t, res.TrackingActive)
	assert.Zero(t, res.Tier)
	assert.Empty(t, rec.saved)
}

func TestCheck_LookupFailure(t *testing.T) {
	svc := &DefaultProximityService{Bookings: fakeFinder{err: errors.New("boom")}, Violations: &fakeRecorder{}}
	_, err := svc.Check(context.Background(), models.ProximityCheckRequest{
		CustomerLocation: point(1, 1),
		ProviderLocation: point(1, 1),
	})
	assert.Error(t, err)
}
