package models

import "time"

// BookingStatus is the lifecycle status persisted on a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusAccepted  BookingStatus = "Accepted"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCompleted BookingStatus = "Completed"
	StatusDeclined  BookingStatus = "Declined"
	StatusExpired   BookingStatus = "Expired"
	StatusCancelled BookingStatus = "Cancelled"
)

// AllBookingStatuses is the complete and only legal set of statuses.
var AllBookingStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
	StatusConfirmed,
	StatusCompleted,
	StatusDeclined,
	StatusExpired,
	StatusCancelled,
}

// BookingType distinguishes "book now" requests from future appointments.
type BookingType string

const (
	BookingImmediate BookingType = "immediate"
	BookingScheduled BookingType = "scheduled"
)

const (
	ProviderTherapist = "therapist"
	ProviderPlace     = "place"
	ProviderFacial    = "facial"
)

// Booking is one service request between a customer and a provider.
type Booking struct {
	ID            string `bson:"id" json:"id"`
	CustomerID    string `bson:"customerId" json:"customerId"`
	CustomerName  string `bson:"customerName" json:"customerName"`
	CustomerPhone string `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`

	ProviderID   string `bson:"providerId" json:"providerId"`
	ProviderType string `bson:"providerType" json:"providerType"`

	ServiceType   string      `bson:"serviceType" json:"serviceType"`
	Duration      int         `bson:"duration" json:"duration"` // minutes: 60, 90 or 120
	BookingType   BookingType `bson:"bookingType" json:"bookingType"`
	ScheduledDate string      `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"` // "2006-01-02"
	ScheduledTime string      `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"` // "15:04"
	// SlotKey is set while a scheduled booking is active and is unique
	// across bookings; terminal transitions unset it.
	SlotKey       string      `bson:"slotKey,omitempty" json:"-"`
	LocationGeo   *GeoPoint   `bson:"locationGeo,omitempty" json:"locationGeo,omitempty"`

	TotalPrice      float64 `bson:"totalPrice" json:"totalPrice"`
	AdminCommission float64 `bson:"adminCommission" json:"adminCommission"`
	ProviderPayout  float64 `bson:"providerPayout" json:"providerPayout"`

	Status      BookingStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	PendingAt   time.Time     `bson:"pendingAt" json:"pendingAt"`
	AcceptedAt  *time.Time    `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	ConfirmedAt *time.Time    `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CompletedAt *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	DeclinedAt  *time.Time    `bson:"declinedAt,omitempty" json:"declinedAt,omitempty"`
	ExpiredAt   *time.Time    `bson:"expiredAt,omitempty" json:"expiredAt,omitempty"`
	CancelledAt *time.Time    `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	ResponseDeadline     time.Time  `bson:"responseDeadline" json:"responseDeadline"`
	ConfirmationDeadline *time.Time `bson:"confirmationDeadline,omitempty" json:"confirmationDeadline,omitempty"`
	DeclineReason        string     `bson:"declineReason,omitempty" json:"declineReason,omitempty"`
	ExpirationReason     string     `bson:"expirationReason,omitempty" json:"expirationReason,omitempty"`

	// CommissionPending marks a completed booking whose commission record
	// has not been written yet.
	CommissionPending bool `bson:"commissionPending,omitempty" json:"-"`
}

// SlotKey identifies a provider's scheduled slot.
func SlotKey(providerID, date, clock string) string {
	return providerID + "|" + date + "|" + clock
}

// CreateBookingRequest is the payload of the customer-facing booking flow.
type CreateBookingRequest struct {
	CustomerID    string      `json:"-"`
	CustomerName  string      `json:"customerName" binding:"required"`
	CustomerPhone string      `json:"customerPhone"`
	ProviderID    string      `json:"providerId" binding:"required"`
	ServiceType   string      `json:"serviceType" binding:"required"`
	Duration      int         `json:"duration" binding:"required"`
	BookingType   BookingType `json:"bookingType" binding:"required"`
	ScheduledDate string      `json:"scheduledDate"`
	ScheduledTime string      `json:"scheduledTime"`
	TotalPrice    float64     `json:"totalPrice" binding:"required,gt=0"`
	LocationGeo   *GeoPoint   `json:"locationGeo,omitempty"`
}

// CommissionRecord is written once for every booking that completes.
type CommissionRecord struct {
	BookingID       string    `bson:"bookingId" json:"bookingId"`
	ProviderID      string    `bson:"providerId" json:"providerId"`
	ProviderType    string    `bson:"providerType" json:"providerType"`
	TotalPrice      float64   `bson:"totalPrice" json:"totalPrice"`
	AdminCommission float64   `bson:"adminCommission" json:"adminCommission"`
	ProviderPayout  float64   `bson:"providerPayout" json:"providerPayout"`
	CommissionRate  float64   `bson:"commissionRate" json:"commissionRate"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	CompletedAt     time.Time `bson:"completedAt" json:"completedAt"`
}

// CommissionSummary aggregates completed bookings over a period.
type CommissionSummary struct {
	TotalBookings        int     `json:"totalBookings"`
	TotalRevenue         float64 `json:"totalRevenue"`
	TotalAdminCommission float64 `json:"totalAdminCommission"`
	TotalProviderPayout  float64 `json:"totalProviderPayout"`
}
