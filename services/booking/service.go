package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "indastreet/database/repository/booking"
	commissionRepo "indastreet/database/repository/commission"
	"indastreet/metrics"
	"indastreet/models"
	"indastreet/services/availability"
	"indastreet/services/countdown"
	"indastreet/services/notification"
	"indastreet/utils/idempotency"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	// ResponseTimeout is how long a provider has to answer a new booking.
	ResponseTimeout = 5 * time.Minute
	// ConfirmationTimeout is how long a customer has to confirm an accepted booking.
	ConfirmationTimeout = 1 * time.Minute
	// DuplicateWindow blocks a second booking with the same provider.
	DuplicateWindow = 5 * time.Minute

	ReasonResponseTimeout     = "Therapist response timeout"
	ReasonConfirmationTimeout = "Customer confirmation timeout"

	providerBookingsLimit = 100
)

var validDurations = map[int]bool{60: true, 90: true, 120: true}

// Dependencies are the collaborators of DefaultBookingService.
type Dependencies struct {
	Repo          bookingRepo.BookingRepository
	Providers     ProviderReader
	Commissions   commissionRepo.CommissionRepository
	Notifications notification.NotificationService
	Expiry        ExpiryScheduler
	Cache         *redis.Client
	Logger        *zap.Logger
	Location      *time.Location
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	repo          bookingRepo.BookingRepository
	providers     ProviderReader
	commissions   commissionRepo.CommissionRepository
	notifications notification.NotificationService
	expiry        ExpiryScheduler
	cache         *redis.Client
	logger        *zap.Logger
	loc           *time.Location

	lifecycle      *LifecycleManager
	commissionOnce *idempotency.Cache[*models.CommissionRecord]
	now            func() time.Time
}

// NewBookingService wires a DefaultBookingService. Cache and Expiry are optional.
func NewBookingService(d Dependencies) *DefaultBookingService {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	s := &DefaultBookingService{
		repo:           d.Repo,
		providers:      d.Providers,
		commissions:    d.Commissions,
		notifications:  d.Notifications,
		expiry:         d.Expiry,
		cache:          d.Cache,
		logger:         d.Logger,
		loc:            d.Location,
		lifecycle:      NewLifecycleManager(d.Repo),
		commissionOnce: idempotency.New[*models.CommissionRecord]("commission", 10*time.Minute),
		now:            time.Now,
	}
	s.lifecycle.Now = func() time.Time { return s.now() }
	return s
}

// CreateBooking validates req against the provider's availability and
// stores a new Pending booking.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	provider, err := s.providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := availability.Validate(provider.Status, req.BookingType); err != nil {
		s.logger.Info("Booking rejected by provider availability",
			zap.String("providerId", provider.ID),
			zap.String("status", string(provider.Status)),
			zap.String("bookingType", string(req.BookingType)))
		return nil, err
	}

	now := s.now()
	dup, err := s.repo.HasRecentActive(ctx, req.CustomerID, req.ProviderID, now.Add(-DuplicateWindow))
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateBooking
	}
	if req.BookingType == models.BookingScheduled {
		reserved, err := s.repo.IsSlotReserved(ctx, req.ProviderID, req.ScheduledDate, req.ScheduledTime)
		if err != nil {
			return nil, err
		}
		if reserved {
			return nil, ErrSlotReserved
		}
	}

	commission, payout := CalculateCommission(req.TotalPrice)
	b := &models.Booking{
		ID:               NewBookingID(now),
		CustomerID:       req.CustomerID,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		ProviderID:       provider.ID,
		ProviderType:     provider.ProviderType,
		ServiceType:      req.ServiceType,
		Duration:         req.Duration,
		BookingType:      req.BookingType,
		LocationGeo:      req.LocationGeo,
		TotalPrice:       req.TotalPrice,
		AdminCommission:  commission,
		ProviderPayout:   payout,
		Status:           models.StatusPending,
		CreatedAt:        now,
		PendingAt:        now,
		ResponseDeadline: now.Add(ResponseTimeout),
	}
	if req.BookingType == models.BookingScheduled {
		b.ScheduledDate = req.ScheduledDate
		b.ScheduledTime = req.ScheduledTime
		b.SlotKey = models.SlotKey(provider.ID, req.ScheduledDate, req.ScheduledTime)
	}

	// The unique slot key index settles races the read above cannot see.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	metrics.RecordBookingCreated(string(b.BookingType), b.ProviderType)
	s.logger.Info("Booking created",
		zap.String("bookingId", b.ID),
		zap.String("providerId", b.ProviderID),
		zap.String("bookingType", string(b.BookingType)))

	s.scheduleExpiry(ctx, b.ID, b.ResponseDeadline)
	s.notify(ctx, b, models.StatusPending)
	return b, nil
}

func (s *DefaultBookingService) validateRequest(req models.CreateBookingRequest) error {
	if req.CustomerID == "" || req.ProviderID == "" {
		return fmt.Errorf("%w: customer and provider are required", ErrInvalidBooking)
	}
	if !validDurations[req.Duration] {
		return fmt.Errorf("%w: duration must be 60, 90 or 120 minutes", ErrInvalidBooking)
	}
	if req.TotalPrice <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidBooking)
	}
	switch req.BookingType {
	case models.BookingImmediate:
	case models.BookingScheduled:
		at, err := countdown.ScheduledAt(req.ScheduledDate, req.ScheduledTime, s.loc)
		if err != nil {
			return fmt.Errorf("%w: scheduled bookings need a date (YYYY-MM-DD) and time (HH:MM)", ErrInvalidBooking)
		}
		if !at.After(s.now()) {
			return fmt.Errorf("%w: scheduled time is in the past", ErrInvalidBooking)
		}
	default:
		return fmt.Errorf("%w: unknown booking type %q", ErrInvalidBooking, req.BookingType)
	}
	return nil
}

// NewBookingID returns an id of the form BK<unix-ms>_<6 upper-case alnum>.
func NewBookingID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("BK%d_%s", now.UnixMilli(), suffix)
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DefaultBookingService) ListProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.repo.ListByProvider(ctx, providerID, providerBookingsLimit)
}

// Accept is called by the provider. The customer then has
// ConfirmationTimeout to confirm.
func (s *DefaultBookingService) Accept(ctx context.Context, id, providerID string) (*models.Booking, error) {
	b, err := s.loadForProvider(ctx, id, providerID)
	if err != nil {
		return nil, err
	}
	deadline := s.now().Add(ConfirmationTimeout)
	at, err := s.lifecycle.Transition(ctx, b.ID, b.Status, models.StatusAccepted, bson.M{"confirmationDeadline": deadline})
	if err != nil {
		return nil, err
	}
	b.Status = models.StatusAccepted
	b.AcceptedAt = &at
	b.ConfirmationDeadline = &deadline

	s.scheduleExpiry(ctx, b.ID, deadline)
	s.notify(ctx, b, models.StatusAccepted)
	return b, nil
}

func (s *DefaultBookingService) Decline(ctx context.Context, id, providerID, reason string) (*models.Booking, error) {
	b, err := s.loadForProvider(ctx, id, providerID)
	if err != nil {
		return nil, err
	}
	return s.decline(ctx, b, reason)
}

func (s *DefaultBookingService) decline(ctx context.Context, b *models.Booking, reason string) (*models.Booking, error) {
	at, err := s.lifecycle.Transition(ctx, b.ID, b.Status, models.StatusDeclined, bson.M{"declineReason": reason})
	if err != nil {
		return nil, err
	}
	b.Status = models.StatusDeclined
	b.DeclinedAt = &at
	b.DeclineReason = reason

	s.notify(ctx, b, models.StatusDeclined)
	return b, nil
}

// Confirm is called by the customer after the provider accepted.
func (s *DefaultBookingService) Confirm(ctx context.Context, id, customerID string) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID != "" && b.CustomerID != customerID {
		return nil, ErrNotParticipant
	}
	at, err := s.lifecycle.Transition(ctx, b.ID, b.Status, models.StatusConfirmed, nil)
	if err != nil {
		return nil, err
	}
	b.Status = models.StatusConfirmed
	b.ConfirmedAt = &at

	s.notify(ctx, b, models.StatusConfirmed)
	return b, nil
}

// Complete closes the session and records the platform commission once.
// The booking is flagged commissionPending in the same write; if the record
// cannot be stored now, ReconcileCommissions picks it up later.
func (s *DefaultBookingService) Complete(ctx context.Context, id, providerID string) (*models.Booking, error) {
	b, err := s.loadForProvider(ctx, id, providerID)
	if err != nil {
		return nil, err
	}
	var extra bson.M
	earns := b.AcceptedAt != nil && b.ConfirmedAt != nil
	if earns {
		extra = bson.M{"commissionPending": true}
	}
	at, err := s.lifecycle.Transition(ctx, b.ID, b.Status, models.StatusCompleted, extra)
	if err != nil {
		return nil, err
	}
	b.Status = models.StatusCompleted
	b.CompletedAt = &at
	b.CommissionPending = earns

	if IsCommissionEligible(b) {
		if err := s.settleCommission(ctx, b); err != nil {
			s.logger.Warn("Commission left for reconciliation",
				zap.String("bookingId", b.ID), zap.Error(err))
		}
	}
	s.notify(ctx, b, models.StatusCompleted)
	return b, nil
}

// settleCommission records b's commission and clears its pending flag.
func (s *DefaultBookingService) settleCommission(ctx context.Context, b *models.Booking) error {
	if _, err := s.recordCommission(ctx, b); err != nil {
		return err
	}
	if err := s.repo.ClearCommissionPending(ctx, b.ID); err != nil {
		return err
	}
	b.CommissionPending = false
	return nil
}

func (s *DefaultBookingService) recordCommission(ctx context.Context, b *models.Booking) (*models.CommissionRecord, error) {
	return s.commissionOnce.ExecuteOnce(ctx, b.ID, func(ctx context.Context) (*models.CommissionRecord, error) {
		rec := commissionRecord(b, s.now())
		err := s.commissions.Record(ctx, rec)
		if errors.Is(err, commissionRepo.ErrAlreadyRecorded) {
			return &rec, nil
		}
		if err != nil {
			return nil, err
		}
		metrics.RecordCommission()
		s.logger.Info("Commission recorded",
			zap.String("bookingId", b.ID),
			zap.Float64("adminCommission", rec.AdminCommission),
			zap.Float64("providerPayout", rec.ProviderPayout))
		return &rec, nil
	})
}

// Expire moves a Pending booking to Expired.
func (s *DefaultBookingService) Expire(ctx context.Context, id, reason string) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expire(ctx, b, reason)
}

func (s *DefaultBookingService) expire(ctx context.Context, b *models.Booking, reason string) (*models.Booking, error) {
	at, err := s.lifecycle.Transition(ctx, b.ID, b.Status, models.StatusExpired, bson.M{"expirationReason": reason})
	if err != nil {
		return nil, err
	}
	b.Status = models.StatusExpired
	b.ExpiredAt = &at
	b.ExpirationReason = reason

	s.notify(ctx, b, models.StatusExpired)
	return b, nil
}

func (s *DefaultBookingService) loadForProvider(ctx context.Context, id, providerID string) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if providerID != "" && b.ProviderID != providerID {
		return nil, ErrNotParticipant
	}
	return b, nil
}

func (s *DefaultBookingService) scheduleExpiry(ctx context.Context, id string, at time.Time) {
	if s.expiry == nil {
		return
	}
	if err := s.expiry.ScheduleExpiry(ctx, id, at); err != nil {
		// The periodic sweep still picks the booking up.
		s.logger.Warn("Failed to schedule booking expiry",
			zap.String("bookingId", id), zap.Time("at", at), zap.Error(err))
	}
}

func (s *DefaultBookingService) notify(ctx context.Context, b *models.Booking, status models.BookingStatus) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.NotifyStatusChange(ctx, b, status); err != nil {
		s.logger.Warn("Failed to notify admin dashboard",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}
