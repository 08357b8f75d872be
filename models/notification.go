package models

import "time"

const (
	NotificationStatusChange      = "booking_status_change"
	NotificationContactViolation  = "contact_violation"
	NotificationAccountRestricted = "account_restricted"
)

// AdminNotification is a record shown on the admin dashboard.
type AdminNotification struct {
	ID        string        `bson:"id" json:"id"`
	Type      string        `bson:"type" json:"type"`
	BookingID string        `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	NewStatus BookingStatus `bson:"newStatus,omitempty" json:"newStatus,omitempty"`
	Title     string        `bson:"title" json:"title"`
	Message   string        `bson:"message" json:"message"`
	Urgent    bool          `bson:"urgent" json:"urgent"`
	Read      bool          `bson:"read" json:"read"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
