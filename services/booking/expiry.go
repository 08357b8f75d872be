package booking

import (
	"context"
	"errors"

	"indastreet/models"

	"go.uber.org/zap"
)

// ExpireIfOverdue applies the response and confirmation timeouts to a
// single booking. Bookings that are not overdue, or that moved on in the
// meantime, are left alone.
func (s *DefaultBookingService) ExpireIfOverdue(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.expireIfOverdue(ctx, b)
	return err
}

func (s *DefaultBookingService) expireIfOverdue(ctx context.Context, b *models.Booking) (bool, error) {
	now := s.now()
	var err error
	switch {
	case b.Status == models.StatusPending && !now.Before(b.ResponseDeadline):
		_, err = s.expire(ctx, b, ReasonResponseTimeout)
	case b.Status == models.StatusAccepted && b.ConfirmationDeadline != nil && !now.Before(*b.ConfirmationDeadline):
		_, err = s.decline(ctx, b, ReasonConfirmationTimeout)
	default:
		return false, nil
	}
	if errors.Is(err, ErrStatusConflict) {
		return false, nil
	}
	return err == nil, err
}

// ExpireOverdue sweeps all Pending bookings past their response deadline
// and Accepted bookings past their confirmation deadline. It returns how many
// bookings it moved.
func (s *DefaultBookingService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()
	sweeps := []struct {
		status models.BookingStatus
		field  string
	}{
		{models.StatusPending, "responseDeadline"},
		{models.StatusAccepted, "confirmationDeadline"},
	}

	moved := 0
	for _, sw := range sweeps {
		overdue, err := s.repo.FindOverdue(ctx, sw.status, sw.field, now)
		if err != nil {
			return moved, err
		}
		for i := range overdue {
			ok, err := s.expireIfOverdue(ctx, &overdue[i])
			if err != nil {
				s.logger.Error("Failed to expire overdue booking",
					zap.String("bookingId", overdue[i].ID), zap.Error(err))
				continue
			}
			if ok {
				moved++
			}
		}
	}
	if moved > 0 {
		s.logger.Info("Expired overdue bookings", zap.Int("count", moved))
	}
	return moved, nil
}
