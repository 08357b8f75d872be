package notification

import (
	"context"
	"fmt"
	"time"

	"indastreet/models"

	"go.uber.org/zap"
)

// NotificationStore persists admin notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n models.AdminNotification) error
}

// NotificationService writes admin dashboard notifications. Delivery to
// devices is handled elsewhere.
type NotificationService interface {
	NotifyStatusChange(ctx context.Context, b *models.Booking, status models.BookingStatus) error
	NotifyViolation(ctx context.Context, v models.ContactViolation) error
	NotifyRestriction(ctx context.Context, userID, userName, role string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	store  NotificationStore
	logger *zap.Logger
}

func NewDefaultNotificationService(store NotificationStore, logger *zap.Logger) (*DefaultNotificationService, error) {
	if store == nil {
		return nil, fmt.Errorf("notification service initialization error: store is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{store: store, logger: logger}, nil
}

// NotifyStatusChange records a booking status change. Expired and declined
// bookings are flagged urgent so ops can follow up with the customer.
func (s *DefaultNotificationService) NotifyStatusChange(ctx context.Context, b *models.Booking, status models.BookingStatus) error {
	n := models.AdminNotification{
		Type:      models.NotificationStatusChange,
		BookingID: b.ID,
		NewStatus: status,
		Title:     fmt.Sprintf("Booking %s", status),
		Message:   fmt.Sprintf("Booking %s for %s (%d min) is now %s", b.ID, b.CustomerName, b.Duration, status),
		Urgent:    status == models.StatusExpired || status == models.StatusDeclined,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("NotifyStatusChange: %w", err)
	}
	s.logger.Info("Admin notified of booking status change",
		zap.String("bookingId", b.ID), zap.String("status", status.String()))
	return nil
}

func (s *DefaultNotificationService) NotifyViolation(ctx context.Context, v models.ContactViolation) error {
	n := models.AdminNotification{
		Type:      models.NotificationContactViolation,
		Title:     "Contact sharing attempt",
		Message:   fmt.Sprintf("%s (%s) tried to share contact details: %s", v.UserName, v.UserRole, v.ViolationType),
		Urgent:    v.AccountRestricted,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("NotifyViolation: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) NotifyRestriction(ctx context.Context, userID, userName, role string) error {
	n := models.AdminNotification{
		Type:      models.NotificationAccountRestricted,
		Title:     "Account restricted",
		Message:   fmt.Sprintf("%s (%s, %s) was restricted after repeated contact sharing attempts", userName, role, userID),
		Urgent:    true,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("NotifyRestriction: %w", err)
	}
	return nil
}
