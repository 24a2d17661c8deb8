package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	getAvailableDates "github.com/m04kA/HTM-BookingService/internal/usecase/get_available_dates"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidMonth       = "некорректные параметры year/month"
	msgTherapistNotFound  = "терапевт не найден"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/available-dates?year=YYYY&month=M
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/available-dates - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(therapistID, query.Get("year"), query.Get("month"))
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/available-dates - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDates.ErrTherapistNotFound):
			h.logger.Warn("GET /therapists/{id}/available-dates - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, getAvailableDates.ErrInvalidInput):
			h.logger.Warn("GET /therapists/{id}/available-dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMonth)

		default:
			h.logger.Error("GET /therapists/{id}/available-dates - Failed to get dates: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /therapists/{id}/available-dates - Dates retrieved: therapist_id=%d, %d-%02d, count=%d",
		therapistID, result.Year, result.Month, len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
