package models

import (
	"errors"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
// Терапевт передает UserID, посетитель - VisitorToken
type CancelBookingRequest struct {
	UserID             *int64  `json:"-"`
	VisitorToken       *string `json:"visitorToken,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса терапевтом
type UpdateStatusRequest struct {
	UserID int64  `json:"-"`
	Status string `json:"status"`
}

// GetTherapistBookingsRequest запрос на получение бронирований терапевта
type GetTherapistBookingsRequest struct {
	UserID             int64      `json:"-"`
	TherapistProfileID int64      `json:"therapistProfileId"`
	StartDate          *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate            *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status             *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTherapistBookingsRequest) ToDomainFilter() (domain.TherapistBookingsFilter, error) {
	filter := domain.TherapistBookingsFilter{
		TherapistProfileID: r.TherapistProfileID,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, errors.New("endDate is before startDate")
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования для терапевта
type BookingResponse struct {
	ID                 int64   `json:"id"`
	TherapistProfileID int64   `json:"therapistProfileId"`
	ServiceID          *int64  `json:"serviceId,omitempty"`
	BookingDate        string  `json:"bookingDate"` // "2026-10-26"
	StartTime          string  `json:"startTime"`   // "10:00"
	EndTime            string  `json:"endTime"`
	DurationMinutes    int     `json:"durationMinutes"`
	SessionFormat      string  `json:"sessionFormat"`
	Status             string  `json:"status"`
	IsVerified         bool    `json:"isVerified"`
	VisitorName        string  `json:"visitorName"`
	VisitorEmail       string  `json:"visitorEmail"`
	VisitorPhone       *string `json:"visitorPhone,omitempty"`
	VisitorNotes       *string `json:"visitorNotes,omitempty"`

	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        *string    `json:"cancelledBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VisitorBookingResponse то, что видит посетитель по своей ссылке
type VisitorBookingResponse struct {
	ID                 int64      `json:"id"`
	TherapistProfileID int64      `json:"therapistProfileId"`
	BookingDate        string     `json:"bookingDate"`
	StartTime          string     `json:"startTime"`
	EndTime            string     `json:"endTime"`
	SessionFormat      string     `json:"sessionFormat"`
	Status             string     `json:"status"`
	IsVerified         bool       `json:"isVerified"`
	VisitorName        string     `json:"visitorName"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CanCancel          bool       `json:"canCancel"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TherapistProfileID: b.TherapistProfileID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes,
		SessionFormat:      string(b.SessionFormat),
		Status:             string(b.Status),
		IsVerified:         b.IsVerified,
		VisitorName:        b.VisitorName,
		VisitorEmail:       b.VisitorEmail,
		VisitorPhone:       b.VisitorPhone,
		VisitorNotes:       b.VisitorNotes,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	return resp
}

// FromDomainVisitorBooking конвертирует domain модель в представление для посетителя
func FromDomainVisitorBooking(b *domain.Booking) *VisitorBookingResponse {
	if b == nil {
		return nil
	}

	return &VisitorBookingResponse{
		ID:                 b.ID,
		TherapistProfileID: b.TherapistProfileID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		SessionFormat:      string(b.SessionFormat),
		Status:             string(b.Status),
		IsVerified:         b.IsVerified,
		VisitorName:        b.VisitorName,
		CancelledAt:        b.CancelledAt,
		CanCancel:          b.CanBeCancelled(),
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCancelled,
		domain.StatusCompleted,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
