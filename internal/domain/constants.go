package domain

import "time"

// Default booking settings
const (
	DefaultSlotDurationMinutes   = 60
	DefaultBufferMinutes         = 15
	DefaultMinBookingNoticeHours = 24
	DefaultMaxBookingDaysAhead   = 60
	DefaultTimezone              = "UTC"
	DefaultRequiresApproval      = true
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 15
	MaxSlotDurationMinutes      = 240
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 60
	MinBookingNoticeHours       = 0
	MaxBookingNoticeHours       = 168 // 1 week
	MinBookingDaysAhead         = 1
	MaxBookingDaysAhead         = 365
	MaxVisitorNameLength        = 200
	MaxVisitorNotesLength       = 2000
	MaxCancellationReasonLength = 500
)

// DefaultVerificationTTL срок жизни ссылки подтверждения email
const DefaultVerificationTTL = 24 * time.Hour

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие слот (участвуют в проверке пересечений)
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
