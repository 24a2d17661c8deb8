package submit_booking

import (
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	submitBooking "github.com/m04kA/HTM-BookingService/internal/usecase/submit_booking"
)

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	ServiceID     *int64  `json:"serviceId,omitempty"`
	BookingDate   string  `json:"bookingDate"` // "2026-10-26"
	StartTime     string  `json:"startTime"`   // "10:00"
	EndTime       string  `json:"endTime,omitempty"`
	SessionFormat string  `json:"sessionFormat,omitempty"`
	VisitorName   string  `json:"visitorName"`
	VisitorEmail  string  `json:"visitorEmail"`
	VisitorPhone  *string `json:"visitorPhone,omitempty"`
	VisitorNotes  *string `json:"visitorNotes,omitempty"`
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	ID                   int64  `json:"id"`
	TherapistProfileID   int64  `json:"therapistProfileId"`
	BookingDate          string `json:"bookingDate"`
	StartTime            string `json:"startTime"`
	EndTime              string `json:"endTime"`
	DurationMinutes      int    `json:"durationMinutes"`
	SessionFormat        string `json:"sessionFormat"`
	Status               string `json:"status"`
	IsVerified           bool   `json:"isVerified"`
	VisitorToken         string `json:"visitorToken"`
	RequiresVerification bool   `json:"requiresVerification"`
	CreatedAt            string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Время оставляем строкой: формат проверяет use case
func (r *SubmitBookingRequest) ToUseCaseRequest(therapistID int64) (*submitBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &submitBooking.Request{
		TherapistID:   therapistID,
		ServiceID:     r.ServiceID,
		Date:          bookingDate,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		SessionFormat: r.SessionFormat,
		VisitorName:   r.VisitorName,
		VisitorEmail:  r.VisitorEmail,
		VisitorPhone:  r.VisitorPhone,
		VisitorNotes:  r.VisitorNotes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitBookingResponse {
	return &SubmitBookingResponse{
		ID:                   resp.ID,
		TherapistProfileID:   resp.TherapistProfileID,
		BookingDate:          resp.BookingDate.Format(domain.DateFormat),
		StartTime:            resp.StartTime.String(),
		EndTime:              resp.EndTime.String(),
		DurationMinutes:      resp.DurationMinutes,
		SessionFormat:        resp.SessionFormat,
		Status:               resp.Status,
		IsVerified:           resp.IsVerified,
		VisitorToken:         resp.VisitorToken,
		RequiresVerification: resp.RequiresVerification,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
	}
}
