package verify_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	verifyBooking "github.com/m04kA/HTM-BookingService/internal/usecase/verify_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingToken       = "отсутствует токен подтверждения"
	msgTokenNotFound      = "ссылка подтверждения недействительна"
	msgTokenExpired       = "срок действия ссылки подтверждения истек"
)

type Handler struct {
	useCase VerifyBookingUseCase
	logger  Logger
}

func NewHandler(useCase VerifyBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &verifyBooking.Request{Token: req.Token})
	if err != nil {
		switch {
		case errors.Is(err, verifyBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/verify - Missing token")
			handlers.RespondBadRequest(w, msgMissingToken)

		case errors.Is(err, verifyBooking.ErrTokenNotFound):
			h.logger.Warn("POST /bookings/verify - Token not found")
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, verifyBooking.ErrTokenExpired):
			h.logger.Warn("POST /bookings/verify - Token expired")
			handlers.RespondGone(w, msgTokenExpired)

		default:
			h.logger.Error("POST /bookings/verify - Failed to verify booking: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/verify - Booking verified: booking_id=%d, already_verified=%t",
		result.BookingID, result.AlreadyVerified)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
