package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"indastreet/models"

	"go.uber.org/zap"
)

const summaryCacheTTL = 5 * time.Minute

func summaryCacheKey(from, to time.Time) string {
	return fmt.Sprintf("commission:summary:%d:%d", from.Unix(), to.Unix())
}

// CommissionSummary totals commission over bookings completed in [from, to).
// Results are cached in Redis for a few minutes.
func (s *DefaultBookingService) CommissionSummary(ctx context.Context, from, to time.Time) (*models.CommissionSummary, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidBooking)
	}
	key := summaryCacheKey(from, to)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached models.CommissionSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.commissions.Summarize(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, data, summaryCacheTTL).Err(); err != nil {
				s.logger.Warn("Failed to cache commission summary", zap.Error(err))
			}
		}
	}
	return summary, nil
}
