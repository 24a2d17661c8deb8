package cancel_booking

import (
	"github.com/m04kA/HTM-BookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
// Посетитель передает visitorToken, терапевт авторизуется заголовком X-User-ID
type CancelBookingRequest struct {
	VisitorToken       *string `json:"visitorToken,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID *int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID:             userID,
		VisitorToken:       r.VisitorToken,
		CancellationReason: r.CancellationReason,
	}
}
