package update_booking_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	"github.com/m04kA/HTM-BookingService/internal/api/middleware"
	"github.com/m04kA/HTM-BookingService/internal/service/settings"
	"github.com/m04kA/HTM-BookingService/internal/service/settings/models"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidData        = "некорректные значения настроек"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/therapists/{therapistId}/booking-settings
// Частичное обновление: отсутствующие поля не меняются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /therapists/{id}/booking-settings - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /therapists/{id}/booking-settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /therapists/{id}/booking-settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.TherapistProfileID = therapistID

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /therapists/{id}/booking-settings - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("PUT /therapists/{id}/booking-settings - Access denied: therapist_id=%d, user_id=%d",
				therapistID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrTherapistNotFound):
			h.logger.Warn("PUT /therapists/{id}/booking-settings - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		default:
			h.logger.Error("PUT /therapists/{id}/booking-settings - Failed to update settings: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /therapists/{id}/booking-settings - Settings updated: therapist_id=%d, user_id=%d",
		therapistID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
