package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	"github.com/m04kA/HTM-BookingService/internal/api/middleware"
	"github.com/m04kA/HTM-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgNoTherapist      = "профиль терапевта бронирования не найден"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/bookings/{bookingId}
// Полная карточка с контактами посетителя, только для терапевта-владельца
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		h.respondError(w, err, bookingID, userID)
		return
	}

	h.logger.Info("GET /bookings/{id} - therapist=%d booking=%d status=%s", userID, booking.ID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, bookingID, userID int64) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgNotFound)
	case errors.Is(err, bookings.ErrTherapistNotFound):
		// профиль удален, а бронирования остались
		h.logger.Warn("GET /bookings/{id} - booking=%d has no therapist profile", bookingID)
		handlers.RespondNotFound(w, msgNoTherapist)
	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("GET /bookings/{id} - user=%d does not own booking=%d", userID, bookingID)
		handlers.RespondForbidden(w, msgForbidden)
	default:
		h.logger.Error("GET /bookings/{id} - booking=%d: %v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}
