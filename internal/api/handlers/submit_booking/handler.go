package submit_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	submitBooking "github.com/m04kA/HTM-BookingService/internal/usecase/submit_booking"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные формы"
	msgSlotUnavailable    = "этот слот больше недоступен, выберите другое время"
	msgTherapistNotFound  = "терапевт не найден"
	msgOnlineBookingOff   = "терапевт не принимает онлайн-записи"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/therapists/{therapistId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /therapists/{id}/bookings - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /therapists/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(therapistID)
	if err != nil {
		h.logger.Warn("POST /therapists/{id}/bookings - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /therapists/{id}/bookings - Slot unavailable: therapist_id=%d, date=%s, start=%s",
				therapistID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, submitBooking.ErrTherapistNotFound):
			h.logger.Warn("POST /therapists/{id}/bookings - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, submitBooking.ErrOnlineBookingDisabled):
			h.logger.Warn("POST /therapists/{id}/bookings - Online booking disabled: therapist_id=%d", therapistID)
			handlers.RespondBadRequest(w, msgOnlineBookingOff)

		case errors.Is(err, submitBooking.ErrInvalidDate):
			h.logger.Warn("POST /therapists/{id}/bookings - Invalid booking date: therapist_id=%d", therapistID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, submitBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /therapists/{id}/bookings - Date too far in future: therapist_id=%d", therapistID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, submitBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /therapists/{id}/bookings - Invalid time slot: therapist_id=%d", therapistID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, submitBooking.ErrTooLateToBook):
			h.logger.Warn("POST /therapists/{id}/bookings - Too late to book: therapist_id=%d", therapistID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /therapists/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /therapists/{id}/bookings - Failed to submit booking: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /therapists/{id}/bookings - Booking submitted: booking_id=%d, therapist_id=%d, status=%s",
		result.ID, therapistID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
