package verify_booking

import (
	verifyBooking "github.com/m04kA/HTM-BookingService/internal/usecase/verify_booking"
)

// VerifyRequest HTTP request model
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse HTTP response model
type VerifyResponse struct {
	Success         bool   `json:"success"`
	AlreadyVerified bool   `json:"alreadyVerified"`
	BookingID       int64  `json:"bookingId"`
	Status          string `json:"status,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *verifyBooking.Response) *VerifyResponse {
	return &VerifyResponse{
		Success:         resp.Success,
		AlreadyVerified: resp.AlreadyVerified,
		BookingID:       resp.BookingID,
		Status:          resp.Status,
	}
}
