package handlers

import (
	"errors"
	"net/http"

	providerRepo "indastreet/database/repository/provider"
	recordsRepo "indastreet/database/repository/records"
	"indastreet/services/availability"
	"indastreet/services/booking"
	"indastreet/services/chat"
	"indastreet/services/enforcement"
	"indastreet/services/provider"
	"indastreet/services/proximity"
	"indastreet/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service errors to HTTP statuses and client-safe messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrStatusConflict),
		errors.Is(err, booking.ErrDuplicateBooking),
		errors.Is(err, booking.ErrSlotReserved):
		return http.StatusConflict, "Booking conflict"
	case errors.Is(err, availability.ErrProviderRestricted),
		errors.Is(err, availability.ErrImmediateUnavailable),
		errors.Is(err, availability.ErrUnknownState):
		return http.StatusUnprocessableEntity, "Provider cannot accept this booking"
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, providerRepo.ErrNotFound),
		errors.Is(err, recordsRepo.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, booking.ErrNotParticipant),
		errors.Is(err, chat.ErrNotParticipant):
		return http.StatusForbidden, "Not allowed"
	case errors.Is(err, chat.ErrAccountRestricted),
		errors.Is(err, provider.ErrRestricted):
		return http.StatusForbidden, "Account restricted"
	case errors.Is(err, booking.ErrInvalidBooking),
		errors.Is(err, provider.ErrStatusNotSettable),
		errors.Is(err, proximity.ErrInvalidLocation),
		errors.Is(err, enforcement.ErrActionRequired):
		return http.StatusBadRequest, "Invalid request"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeServiceError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		// Store errors stay in the logs.
		getLogger(c).Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, utils.ErrorResponse{Error: message})
		return
	}
	utils.JSONError(c, status, message, err.Error())
}
