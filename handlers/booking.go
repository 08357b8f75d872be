package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"indastreet/middleware"
	"indastreet/models"
	"indastreet/services/booking"
	"indastreet/services/countdown"
	"indastreet/utils"
	"indastreet/utils/idempotency"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyHeader lets clients retry booking creation safely.
const IdempotencyHeader = "Idempotency-Key"

// BookingHandler serves the customer and provider booking endpoints.
type BookingHandler struct {
	BookingSvc        booking.BookingService
	Idempotency       *idempotency.Cache[*models.Booking]
	Location          *time.Location
	CountdownInterval time.Duration
	Logger            *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, cache *idempotency.Cache[*models.Booking], loc *time.Location, logger *zap.Logger) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{
		BookingSvc:        svc,
		Idempotency:       cache,
		Location:          loc,
		CountdownInterval: time.Second,
		Logger:            logger,
	}
}

// CreateBooking handles POST /api/bookings. Requests carrying the same
// Idempotency-Key from the same customer share one result.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	req.CustomerID = c.GetString(middleware.ContextUserID)

	create := func(ctx context.Context) (*models.Booking, error) {
		return h.BookingSvc.CreateBooking(ctx, req)
	}

	var (
		b   *models.Booking
		err error
	)
	if key := strings.TrimSpace(c.GetHeader(IdempotencyHeader)); key != "" && h.Idempotency != nil {
		b, err = h.Idempotency.ExecuteOnce(c.Request.Context(), req.CustomerID+":"+key, create)
	} else {
		b, err = create(c.Request.Context())
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// canView reports whether the caller is a party to b or an admin.
func canView(c *gin.Context, b *models.Booking) bool {
	if c.GetString(middleware.ContextRole) == utils.RoleAdmin {
		return true
	}
	uid := c.GetString(middleware.ContextUserID)
	return uid == b.CustomerID || uid == b.ProviderID
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.BookingSvc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !canView(c, b) {
		writeServiceError(c, booking.ErrNotParticipant)
		return
	}
	c.JSON(http.StatusOK, b)
}

// StreamCountdown handles GET /api/bookings/:id/countdown as server-sent
// events. The stream ends when the client leaves or after the first expired
// frame.
func (h *BookingHandler) StreamCountdown(c *gin.Context) {
	b, err := h.BookingSvc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !canView(c, b) {
		writeServiceError(c, booking.ErrNotParticipant)
		return
	}

	interval := h.CountdownInterval
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	frames := countdown.Watch(ctx, b.ScheduledDate, b.ScheduledTime, h.Location, interval)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		frame, ok := <-frames
		if !ok {
			return false
		}
		c.SSEvent("countdown", frame)
		return !frame.IsExpired
	})
}

func (h *BookingHandler) ListProviderBookings(c *gin.Context) {
	bookings, err := h.BookingSvc.ListProviderBookings(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) Accept(c *gin.Context) {
	b, err := h.BookingSvc.Accept(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	h.respond(c, b, err)
}

func (h *BookingHandler) Decline(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	// The reason is optional; an empty body is fine.
	_ = c.ShouldBindJSON(&body)
	b, err := h.BookingSvc.Decline(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID), body.Reason)
	h.respond(c, b, err)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	b, err := h.BookingSvc.Confirm(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	h.respond(c, b, err)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	b, err := h.BookingSvc.Complete(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	h.respond(c, b, err)
}

func (h *BookingHandler) respond(c *gin.Context, b *models.Booking, err error) {
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
