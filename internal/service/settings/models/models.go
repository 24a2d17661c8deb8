package models

import (
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// Request модели

// UpdateSettingsRequest запрос на частичное обновление настроек
// Обновляются только переданные поля
type UpdateSettingsRequest struct {
	UserID                 int64   `json:"-"`
	TherapistProfileID     int64   `json:"-"`
	SlotDurationMinutes    *int    `json:"slotDurationMinutes,omitempty" validate:"omitempty,min=15,max=240"`
	BufferMinutes          *int    `json:"bufferMinutes,omitempty" validate:"omitempty,min=0,max=60"`
	MinBookingNoticeHours  *int    `json:"minBookingNoticeHours,omitempty" validate:"omitempty,min=0,max=168"`
	MaxBookingDaysAhead    *int    `json:"maxBookingDaysAhead,omitempty" validate:"omitempty,min=1,max=365"`
	Timezone               *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	RequiresApproval       *bool   `json:"requiresApproval,omitempty"`
	AcceptsOnlineBooking   *bool   `json:"acceptsOnlineBooking,omitempty"`
	SendVisitorReminders   *bool   `json:"sendVisitorReminders,omitempty"`
	SendTherapistReminders *bool   `json:"sendTherapistReminders,omitempty"`
}

// WeeklyRange один диапазон недельного шаблона
type WeeklyRange struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// ReplaceWeeklyAvailabilityRequest запрос на полную замену недельного шаблона
type ReplaceWeeklyAvailabilityRequest struct {
	UserID             int64         `json:"-"`
	TherapistProfileID int64         `json:"-"`
	Ranges             []WeeklyRange `json:"ranges" validate:"dive"`
}

// Response модели

// SettingsResponse ответ с настройками бронирования
type SettingsResponse struct {
	TherapistProfileID     int64     `json:"therapistProfileId"`
	SlotDurationMinutes    int       `json:"slotDurationMinutes"`
	BufferMinutes          int       `json:"bufferMinutes"`
	MinBookingNoticeHours  int       `json:"minBookingNoticeHours"`
	MaxBookingDaysAhead    int       `json:"maxBookingDaysAhead"`
	Timezone               string    `json:"timezone"`
	RequiresApproval       bool      `json:"requiresApproval"`
	AcceptsOnlineBooking   bool      `json:"acceptsOnlineBooking"`
	SendVisitorReminders   bool      `json:"sendVisitorReminders"`
	SendTherapistReminders bool      `json:"sendTherapistReminders"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// WeeklyAvailabilityResponse ответ с недельным шаблоном
type WeeklyAvailabilityResponse struct {
	TherapistProfileID int64         `json:"therapistProfileId"`
	Ranges             []WeeklyRange `json:"ranges"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.BookingSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	return &SettingsResponse{
		TherapistProfileID:     s.TherapistProfileID,
		SlotDurationMinutes:    s.SlotDurationMinutes,
		BufferMinutes:          s.BufferMinutes,
		MinBookingNoticeHours:  s.MinBookingNoticeHours,
		MaxBookingDaysAhead:    s.MaxBookingDaysAhead,
		Timezone:               s.Timezone,
		RequiresApproval:       s.RequiresApproval,
		AcceptsOnlineBooking:   s.AcceptsOnlineBooking,
		SendVisitorReminders:   s.SendVisitorReminders,
		SendTherapistReminders: s.SendTherapistReminders,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

// FromDomainWeekly конвертирует недельный шаблон в DTO
func FromDomainWeekly(therapistID int64, slots []*domain.WeeklyAvailabilitySlot) *WeeklyAvailabilityResponse {
	resp := &WeeklyAvailabilityResponse{
		TherapistProfileID: therapistID,
		Ranges:             make([]WeeklyRange, 0, len(slots)),
	}

	for _, slot := range slots {
		resp.Ranges = append(resp.Ranges, WeeklyRange{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		})
	}

	return resp
}

// ApplyToSettings применяет обновления к существующим настройкам
// Обновляются только непустые (not nil) поля из request
func (r *UpdateSettingsRequest) ApplyToSettings(s *domain.BookingSettings) {
	if r.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.BufferMinutes != nil {
		s.BufferMinutes = *r.BufferMinutes
	}
	if r.MinBookingNoticeHours != nil {
		s.MinBookingNoticeHours = *r.MinBookingNoticeHours
	}
	if r.MaxBookingDaysAhead != nil {
		s.MaxBookingDaysAhead = *r.MaxBookingDaysAhead
	}
	if r.Timezone != nil {
		s.Timezone = *r.Timezone
	}
	if r.RequiresApproval != nil {
		s.RequiresApproval = *r.RequiresApproval
	}
	if r.AcceptsOnlineBooking != nil {
		s.AcceptsOnlineBooking = *r.AcceptsOnlineBooking
	}
	if r.SendVisitorReminders != nil {
		s.SendVisitorReminders = *r.SendVisitorReminders
	}
	if r.SendTherapistReminders != nil {
		s.SendTherapistReminders = *r.SendTherapistReminders
	}
}

// ToDomainSlot конвертирует диапазон в domain модель
func (w WeeklyRange) ToDomainSlot(therapistID int64) (*domain.WeeklyAvailabilitySlot, error) {
	start, err := types.NewTimeStringFromString(w.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(w.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.WeeklyAvailabilitySlot{
		TherapistProfileID: therapistID,
		DayOfWeek:          w.DayOfWeek,
		StartTime:          start,
		EndTime:            end,
	}, nil
}
