package domain

import (
	"time"

	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// SessionFormat how the session is held
type SessionFormat string

const (
	SessionOnline   SessionFormat = "online"
	SessionInPerson SessionFormat = "in-person"
	SessionPhone    SessionFormat = "phone"
)

// CancelledBy who cancelled the booking
type CancelledBy string

const (
	CancelledByTherapist CancelledBy = "therapist"
	CancelledByVisitor   CancelledBy = "visitor"
)

// allowedTransitions граф допустимых переходов статусов
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

// Booking represents a session booked by a visitor with a therapist
type Booking struct {
	ID                 int64
	TherapistProfileID int64
	ServiceID          *int64
	BookingDate        time.Time // дата в часовом поясе терапевта (время 00:00 UTC)
	StartTime          types.TimeString
	EndTime            types.TimeString
	DurationMinutes    int
	BufferMinutes      int // буфер на момент создания, участвует в ограничении пересечений
	SessionFormat      SessionFormat

	VisitorName  string
	VisitorEmail string
	VisitorPhone *string
	VisitorNotes *string
	VisitorToken string

	Status     BookingStatus
	IsVerified bool

	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	CancelledBy        *CancelledBy

	Reminder24hSentAt *time.Time
	Reminder1hSentAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its time slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return len(allowedTransitions[b.Status]) == 0
}

// CanTransitionTo reports whether the status graph allows moving to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, s := range allowedTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// CanBeConfirmed returns true only for pending bookings with a verified visitor email
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending && b.IsVerified
}

// CanBeCancelled returns true if the booking is in a non-terminal state
func (b *Booking) CanBeCancelled() bool {
	return b.CanTransitionTo(StatusCancelled)
}

// StartsAt returns the booking start instant in the therapist's timezone
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	instant, _ := b.StartTime.On(b.BookingDate, loc)
	return instant
}

// EndsAt returns the booking end instant in the therapist's timezone
func (b *Booking) EndsAt(loc *time.Location) time.Time {
	instant, _ := b.EndTime.On(b.BookingDate, loc)
	return instant
}

// HasEnded returns true if the session end is not after now
func (b *Booking) HasEnded(now time.Time, loc *time.Location) bool {
	return !b.EndsAt(loc).After(now)
}

// ReminderSentAt returns the stamp for the given threshold
func (b *Booking) ReminderSentAt(threshold ReminderThreshold) *time.Time {
	if threshold == Reminder24h {
		return b.Reminder24hSentAt
	}
	return b.Reminder1hSentAt
}

// TherapistBookingsFilter фильтр для получения бронирований терапевта
type TherapistBookingsFilter struct {
	TherapistProfileID int64          // Обязательный параметр
	StartDate          *time.Time     // Начало периода (опционально)
	EndDate            *time.Time     // Конец периода (опционально)
	Status             *BookingStatus // Фильтр по статусу (опционально)
	OnlyActive         bool           // Только pending и confirmed
}
