package get_therapist_bookings

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
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidParams      = "некорректные параметры запроса"
	msgForbidden          = "доступ запрещен"
	msgTherapistNotFound  = "терапевт не найден"
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

// Handle GET /api/v1/therapists/{therapistId}/bookings
// Query params: from, to (YYYY-MM-DD), status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/bookings - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /therapists/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(therapistID, userID, query.Get("from"), query.Get("to"), query.Get("status"))
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTherapistBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /therapists/{id}/bookings - Access denied: therapist_id=%d, user_id=%d",
				therapistID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrTherapistNotFound):
			h.logger.Warn("GET /therapists/{id}/bookings - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /therapists/{id}/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /therapists/{id}/bookings - Failed to get bookings: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /therapists/{id}/bookings - Bookings retrieved: therapist_id=%d, count=%d",
		therapistID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
