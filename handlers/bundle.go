package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	CreateBooking        gin.HandlerFunc
	GetBooking           gin.HandlerFunc
	StreamCountdown      gin.HandlerFunc
	AcceptBooking        gin.HandlerFunc
	DeclineBooking       gin.HandlerFunc
	ConfirmBooking       gin.HandlerFunc
	CompleteBooking      gin.HandlerFunc
	ListProviderBookings gin.HandlerFunc

	// Provider endpoints
	GetAvailability gin.HandlerFunc
	SetAvailability gin.HandlerFunc

	CheckProximity gin.HandlerFunc

	// Chat endpoints
	SendMessage  gin.HandlerFunc
	PollMessages gin.HandlerFunc

	// Admin endpoints
	CommissionSummary   gin.HandlerFunc
	ViolationsForReview gin.HandlerFunc
	MarkReviewed        gin.HandlerFunc
	SetRestriction      gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires handler methods into the bundle.
func NewHandlerBundle(bh *BookingHandler, ph *ProviderHandler, xh *ProximityHandler, ch *ChatHandler, ah *AdminHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateBooking:        bh.CreateBooking,
		GetBooking:           bh.GetBooking,
		StreamCountdown:      bh.StreamCountdown,
		AcceptBooking:        bh.Accept,
		DeclineBooking:       bh.Decline,
		ConfirmBooking:       bh.Confirm,
		CompleteBooking:      bh.Complete,
		ListProviderBookings: bh.ListProviderBookings,

		GetAvailability: ph.GetAvailability,
		SetAvailability: ph.SetAvailability,

		CheckProximity: xh.Check,

		SendMessage:  ch.SendMessage,
		PollMessages: ch.PollMessages,

		CommissionSummary:   ah.CommissionSummary,
		ViolationsForReview: ah.ViolationsForReview,
		MarkReviewed:        ah.MarkReviewed,
		SetRestriction:      ah.SetRestriction,

		Health: Health,
	}
}
