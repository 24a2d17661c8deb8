package get_booking_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	"github.com/m04kA/HTM-BookingService/internal/service/settings"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgTherapistNotFound  = "терапевт не найден"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/booking-settings
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/booking-settings - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	result, err := h.service.GetSettings(r.Context(), therapistID)
	if err != nil {
		if errors.Is(err, settings.ErrTherapistNotFound) {
			h.logger.Warn("GET /therapists/{id}/booking-settings - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)
			return
		}
		h.logger.Error("GET /therapists/{id}/booking-settings - Failed to get settings: therapist_id=%d, error=%v",
			therapistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /therapists/{id}/booking-settings - Settings retrieved: therapist_id=%d", therapistID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
