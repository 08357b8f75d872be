package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingRepo "indastreet/database/repository/booking"
	commissionRepo "indastreet/database/repository/commission"
	providerRepo "indastreet/database/repository/provider"
	"indastreet/models"
	"indastreet/services/availability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// memRepo is an in-memory BookingRepository.
type memRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: map[string]*models.Booking{}}
}

func (r *memRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.SlotKey != "" {
		for _, other := range r.bookings {
			if other.SlotKey == b.SlotKey {
				return bookingRepo.ErrSlotTaken
			}
		}
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, current models.BookingStatus, set bson.M) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != current {
		return false, nil
	}
	for k, v := range set {
		switch k {
		case "status":
			b.Status = v.(models.BookingStatus)
			if b.Status.IsTerminal() {
				b.SlotKey = ""
			}
		case "commissionPending":
			b.CommissionPending = v.(bool)
		case "acceptedAt", "confirmedAt", "completedAt", "declinedAt", "expiredAt":
			at := v.(time.Time)
			switch k {
			case "acceptedAt":
				b.AcceptedAt = &at
			case "confirmedAt":
				b.ConfirmedAt = &at
			case "completedAt":
				b.CompletedAt = &at
			case "declinedAt":
				b.DeclinedAt = &at
			case "expiredAt":
				b.ExpiredAt = &at
			}
		case "confirmationDeadline":
			at := v.(time.Time)
			b.ConfirmationDeadline = &at
		case "declineReason":
			b.DeclineReason = v.(string)
		case "expirationReason":
			b.ExpirationReason = v.(string)
		}
	}
	return true, nil
}

func (r *memRepo) HasRecentActive(_ context.Context, customerID, providerID string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.CustomerID == customerID && b.ProviderID == providerID && b.Status.IsActive() && !b.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) IsSlotReserved(_ context.Context, providerID, date, clock string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.ScheduledDate == date && b.ScheduledTime == clock && b.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ListByProvider(_ context.Context, providerID string, _ int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) FindOverdue(_ context.Context, status models.BookingStatus, field string, now time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status != status {
			continue
		}
		var deadline *time.Time
		switch field {
		case "responseDeadline":
			deadline = &b.ResponseDeadline
		case "confirmationDeadline":
			deadline = b.ConfirmationDeadline
		}
		if deadline != nil && deadline.Before(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) FindCommissionPending(_ context.Context, _ int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.StatusCompleted && b.CommissionPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) ClearCommissionPending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.CommissionPending = false
	}
	return nil
}

func (r *memRepo) FirstCompletedAt(context.Context, string, string) (*time.Time, error) {
	return nil, nil
}

type memProviders map[string]*models.Provider

func (m memProviders) GetByID(_ context.Context, id string) (*models.Provider, error) {
	p, ok := m[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	return p, nil
}

type memCommissions struct {
	mu      sync.Mutex
	records map[string]models.CommissionRecord
	calls   int
	fail    error
}

func (m *memCommissions) Record(_ context.Context, rec models.CommissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.records[rec.BookingID]; ok {
		return commissionRepo.ErrAlreadyRecorded
	}
	m.records[rec.BookingID] = rec
	return nil
}

func (m *memCommissions) Summarize(context.Context, time.Time, time.Time) (*models.CommissionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.CommissionSummary{}
	for _, r := range m.records {
		s.TotalBookings++
		s.TotalRevenue += r.TotalPrice
		s.TotalAdminCommission += r.AdminCommission
		s.TotalProviderPayout += r.ProviderPayout
	}
	return s, nil
}

type recordingScheduler struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingScheduler) ScheduleExpiry(_ context.Context, id string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return nil
}

type fixture struct {
	svc         *DefaultBookingService
	repo        *memRepo
	commissions *memCommissions
	scheduler   *recordingScheduler
	clock       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:        newMemRepo(),
		commissions: &memCommissions{records: map[string]models.CommissionRecord{}},
		scheduler:   &recordingScheduler{},
		clock:       time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewBookingService(Dependencies{
		Repo: f.repo,
		Providers: memProviders{
			"avail":      {ID: "avail", ProviderType: models.ProviderTherapist, Status: models.ProviderAvailable},
			"busy":       {ID: "busy", ProviderType: models.ProviderTherapist, Status: models.ProviderBusy},
			"restricted": {ID: "restricted", ProviderType: models.ProviderPlace, Status: models.ProviderRestricted},
		},
		Commissions: f.commissions,
		Expiry:      f.scheduler,
	})
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func immediateRequest(provider string) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		CustomerID:   "cust-1",
		CustomerName: "Made",
		ProviderID:   provider,
		ServiceType:  "balinese",
		Duration:     90,
		BookingType:  models.BookingImmediate,
		TotalPrice:   250000,
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), immediateRequest("avail"))
	require.NoError(t, err)
	assert.Regexp(t, `^BK\d{13}_[0-9A-F]{6}$`, b.ID)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, 75000.0, b.AdminCommission)
	assert.Equal(t, 175000.0, b.ProviderPayout)
	assert.Equal(t, f.clock.Add(ResponseTimeout), b.ResponseDeadline)
	assert.Equal(t, []string{b.ID}, f.scheduler.ids)
}

func TestCreateBooking_AvailabilityRules(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), immediateRequest("busy"))
	assert.ErrorIs(t, err, availability.ErrImmediateUnavailable)

	scheduled := immediateRequest("busy")
	scheduled.BookingType = models.BookingScheduled
	scheduled.ScheduledDate = "2025-04-02"
	scheduled.ScheduledTime = "10:00"
	_, err = f.svc.CreateBooking(context.Background(), scheduled)
	assert.NoError(t, err)

	scheduled.ProviderID = "restricted"
	scheduled.CustomerID = "cust-2"
	_, err = f.svc.CreateBooking(context.Background(), scheduled)
	assert.ErrorIs(t, err, availability.ErrProviderRestricted)

	_, err = f.svc.CreateBooking(context.Background(), immediateRequest("ghost"))
	assert.ErrorIs(t, err, providerRepo.ErrNotFound)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)

	req := immediateRequest("avail")
	req.Duration = 45
	_, err := f.svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidBooking)

	req = immediateRequest("avail")
	req.BookingType = models.BookingScheduled
	_, err = f.svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidBooking)

	req.ScheduledDate = "2025-03-31"
	req.ScheduledTime = "10:00"
	_, err = f.svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidBooking)
}

func TestCreateBooking_DuplicateAndSlot(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), immediateRequest("avail"))
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(context.Background(), immediateRequest("avail"))
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	// Outside the window the same pair may book again.
	f.clock = f.clock.Add(DuplicateWindow + time.Second)
	_, err = f.svc.CreateBooking(context.Background(), immediateRequest("avail"))
	assert.NoError(t, err)

	slot := immediateRequest("busy")
	slot.BookingType = models.BookingScheduled
	slot.ScheduledDate = "2025-04-03"
	slot.ScheduledTime = "15:00"
	_, err = f.svc.CreateBooking(context.Background(), slot)
	require.NoError(t, err)

	slot.CustomerID = "cust-9"
	_, err = f.svc.CreateBooking(context.Background(), slot)
	assert.ErrorIs(t, err, ErrSlotReserved)
}

// slotRaceRepo lets every caller pass the slot pre-check before any insert.
type slotRaceRepo struct {
	*memRepo
	arrived sync.WaitGroup
}

func (r *slotRaceRepo) IsSlotReserved(context.Context, string, string, string) (bool, error) {
	r.arrived.Done()
	r.arrived.Wait()
	return false, nil
}

func scheduledRequest(provider, customer string) models.CreateBookingRequest {
	req := immediateRequest(provider)
	req.CustomerID = customer
	req.BookingType = models.BookingScheduled
	req.ScheduledDate = "2025-04-03"
	req.ScheduledTime = "15:00"
	return req
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	repo := &slotRaceRepo{memRepo: f.repo}
	repo.arrived.Add(2)
	svc := NewBookingService(Dependencies{
		Repo:        repo,
		Providers:   memProviders{"avail": {ID: "avail", ProviderType: models.ProviderTherapist, Status: models.ProviderAvailable}},
		Commissions: f.commissions,
	})
	svc.now = func() time.Time { return f.clock }

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, customer := range []string{"cust-1", "cust-2"} {
		wg.Add(1)
		go func(i int, customer string) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), scheduledRequest("avail", customer))
		}(i, customer)
	}
	wg.Wait()

	var reserved, ok int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotReserved):
			reserved++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, reserved)
	assert.Len(t, f.repo.bookings, 1)
}

func TestCreateBooking_DeclinedSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateBooking(ctx, scheduledRequest("avail", "cust-1"))
	require.NoError(t, err)
	assert.Equal(t, models.SlotKey("avail", "2025-04-03", "15:00"), first.SlotKey)

	_, err = f.svc.Decline(ctx, first.ID, "avail", "not that day")
	require.NoError(t, err)
	stored, _ := f.repo.GetByID(ctx, first.ID)
	assert.Empty(t, stored.SlotKey)

	_, err = f.svc.CreateBooking(ctx, scheduledRequest("avail", "cust-2"))
	assert.NoError(t, err)
}

func TestComplete_CommissionStoreDownIsReconciled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.commissions.fail = errors.New("commission store down")

	b, err := f.svc.CreateBooking(ctx, immediateRequest("avail"))
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, b.ID, "avail")
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, b.ID, "cust-1")
	require.NoError(t, err)

	done, err := f.svc.Complete(ctx, b.ID, "avail")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Empty(t, f.commissions.records)

	stored, _ := f.repo.GetByID(ctx, b.ID)
	assert.True(t, stored.CommissionPending)

	// Still down: the booking stays flagged.
	n, err := f.svc.ReconcileCommissions(ctx)
	assert.Error(t, err)
	assert.Zero(t, n)

	f.commissions.fail = nil
	n, err = f.svc.ReconcileCommissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.commissions.records, 1)
	assert.Equal(t, 75000.0, f.commissions.records[b.ID].AdminCommission)

	stored, _ = f.repo.GetByID(ctx, b.ID)
	assert.False(t, stored.CommissionPending)

	n, err = f.svc.ReconcileCommissions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, f.commissions.records, 1)
}

func TestBookingScenario_CompletedPathEarnsCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1, err := f.svc.CreateBooking(ctx, immediateRequest("avail"))
	require.NoError(t, err)

	// Skipping straight to Completed is refused.
	_, err = f.svc.Complete(ctx, b1.ID, "avail")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Accept(ctx, b1.ID, "avail")
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, b1.ID, "cust-1")
	require.NoError(t, err)
	done, err := f.svc.Complete(ctx, b1.ID, "avail")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.True(t, IsCommissionEligible(done))
	require.Len(t, f.commissions.records, 1)
	assert.Equal(t, 75000.0, f.commissions.records[b1.ID].AdminCommission)
	assert.False(t, done.CommissionPending)

	// Completed is terminal.
	_, err = f.svc.Decline(ctx, b1.ID, "avail", "changed mind")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, _ := f.repo.GetByID(ctx, b1.ID)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestBookingScenario_DeclinedEarnsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, immediateRequest("avail"))
	require.NoError(t, err)
	declined, err := f.svc.Decline(ctx, b.ID, "avail", "fully booked")
	require.NoError(t, err)

	assert.False(t, IsCommissionEligible(declined))
	assert.Equal(t, "fully booked", declined.DeclineReason)

	_, err = f.svc.Accept(ctx, b.ID, "avail")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, f.commissions.records)
}

func TestAccept_WrongProvider(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.CreateBooking(context.Background(), immediateRequest("avail"))
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), b.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestRecordCommission_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	now := f.clock
	b := &models.Booking{ID: "BK1", TotalPrice: 100000, Status: models.StatusCompleted, AcceptedAt: &now, ConfirmedAt: &now, CompletedAt: &now}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.recordCommission(context.Background(), b)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.commissions.records, 1)
	assert.Equal(t, 1, f.commissions.calls)
}

func TestExpireOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending, err := f.svc.CreateBooking(ctx, immediateRequest("avail"))
	require.NoError(t, err)

	other := immediateRequest("avail")
	other.CustomerID = "cust-2"
	accepted, err := f.svc.CreateBooking(ctx, other)
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, accepted.ID, "avail")
	require.NoError(t, err)

	// Nothing is overdue yet.
	n, err := f.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock = f.clock.Add(ResponseTimeout + time.Second)
	n, err = f.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, _ := f.repo.GetByID(ctx, pending.ID)
	assert.Equal(t, models.StatusExpired, p.Status)
	assert.Equal(t, ReasonResponseTimeout, p.ExpirationReason)

	a, _ := f.repo.GetByID(ctx, accepted.ID)
	assert.Equal(t, models.StatusDeclined, a.Status)
	assert.Equal(t, ReasonConfirmationTimeout, a.DeclineReason)
}

func TestExpireIfOverdue_LeavesFreshBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.CreateBooking(ctx, immediateRequest("avail"))
	require.NoError(t, err)

	require.NoError(t, f.svc.ExpireIfOverdue(ctx, b.ID))
	stored, _ := f.repo.GetByID(ctx, b.ID)
	assert.Equal(t, models.StatusPending, stored.Status)

	f.clock = b.ResponseDeadline
	require.NoError(t, f.svc.ExpireIfOverdue(ctx, b.ID))
	stored, _ = f.repo.GetByID(ctx, b.ID)
	assert.Equal(t, models.StatusExpired, stored.Status)
}
