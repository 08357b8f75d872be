package proximity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"indastreet/metrics"
	"indastreet/models"

	"go.uber.org/zap"
)

// ErrInvalidLocation is returned when either point is not a lon/lat pair.
var ErrInvalidLocation = errors.New("invalid location")

// FirstBookingFinder returns when the pair's first completed booking happened.
type FirstBookingFinder interface {
	FirstCompletedAt(ctx context.Context, customerID, providerID string) (*time.Time, error)
}

// ViolationRecorder persists proximity violations.
type ViolationRecorder interface {
	CreateProximityViolation(ctx context.Context, v models.ProximityViolation) error
}

// ProximityService evaluates customer/provider proximity.
type ProximityService interface {
	Check(ctx context.Context, req models.ProximityCheckRequest) (*models.ProximityCheckResult, error)
}

// DefaultProximityService implements ProximityService.
type DefaultProximityService struct {
	Bookings   FirstBookingFinder
	Violations ViolationRecorder
	Logger     *zap.Logger
	Now        func() time.Time
}

func (s *DefaultProximityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Check measures the pair's distance and records a violation when tracking
// is active and a tier applies.
func (s *DefaultProximityService) Check(ctx context.Context, req models.ProximityCheckRequest) (*models.ProximityCheckResult, error) {
	if !req.CustomerLocation.Valid() || !req.ProviderLocation.Valid() {
		return nil, ErrInvalidLocation
	}

	first, err := s.Bookings.FirstCompletedAt(ctx, req.CustomerID, req.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up first booking: %w", err)
	}

	now := s.now()
	dist := DistanceMeters(req.CustomerLocation, req.ProviderLocation)
	result := &models.ProximityCheckResult{
		DistanceMeters: dist,
		TrackingActive: IsTrackingActive(first, now),
	}
	if !result.TrackingActive {
		return result, nil
	}

	tier, ok := GetTier(dist)
	if !ok {
		return result, nil
	}
	result.Tier = int(tier)

	v := models.ProximityViolation{
		CustomerID:     req.CustomerID,
		ProviderID:     req.ProviderID,
		DistanceMeters: dist,
		Tier:           int(tier),
		CreatedAt:      now,
	}
	if err := s.Violations.CreateProximityViolation(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to record proximity violation: %w", err)
	}
	metrics.RecordProximityViolation(strconv.Itoa(int(tier)))
	if s.Logger != nil {
		s.Logger.Warn("Proximity violation recorded",
			zap.String("customerId", req.CustomerID),
			zap.String("providerId", req.ProviderID),
			zap.Float64("distanceMeters", dist),
			zap.Int("tier", int(tier)))
	}
	return result, nil
}
