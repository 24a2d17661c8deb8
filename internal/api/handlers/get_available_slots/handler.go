package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	"github.com/m04kA/HTM-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/HTM-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTherapistNotFound  = "терапевт не найден"
	msgInvalidParams      = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/available-slots - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(therapistID, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTherapistNotFound):
			h.logger.Warn("GET /therapists/{id}/available-slots - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /therapists/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /therapists/{id}/available-slots - Failed to get slots: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /therapists/{id}/available-slots - Slots retrieved: therapist_id=%d, date=%s, count=%d",
		therapistID, useCaseReq.Date.Format(domain.DateFormat), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
