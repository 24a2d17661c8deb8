package lookup_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	"github.com/m04kA/HTM-BookingService/internal/service/bookings"
)

const (
	msgMissingToken = "отсутствует токен бронирования"
	msgNotFound     = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/lookup?token=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.logger.Warn("GET /bookings/lookup - Missing token")
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	booking, err := h.service.GetByVisitorToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/lookup - Booking not found by token")
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /bookings/lookup - Failed to get booking: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/lookup - Booking retrieved: booking_id=%d", booking.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
