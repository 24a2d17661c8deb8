package availability

import (
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// Horizon положение даты относительно окна бронирования
type Horizon int

const (
	HorizonOpen        Horizon = iota // дата в окне [сегодня, сегодня+max_booking_days_ahead]
	HorizonPast                       // дата раньше сегодняшней
	HorizonTooFarAhead                // дата позже сегодня+max_booking_days_ahead
)

// SlotState результат проверки слота
type SlotState int

const (
	SlotAvailable SlotState = iota
	SlotTooSoon             // начинается раньше now + min_booking_notice
	SlotBusy                // пересекается с занятостью с учетом буфера
)

// EvaluatedSlot слот шаблона с результатом проверки
type EvaluatedSlot struct {
	domain.TimeSlot
	State SlotState
}

// Evaluation результат расчета одного дня
type Evaluation struct {
	Date    time.Time
	Horizon Horizon
	Slots   []EvaluatedSlot // все слоты шаблона на дату, по возрастанию
}

// Available возвращает свободные слоты
func (e *Evaluation) Available() []domain.TimeSlot {
	result := make([]domain.TimeSlot, 0, len(e.Slots))
	if e.Horizon != HorizonOpen {
		return result
	}
	for _, s := range e.Slots {
		if s.State == SlotAvailable {
			result = append(result, s.TimeSlot)
		}
	}
	return result
}

// Find ищет слот шаблона по времени начала и окончания
func (e *Evaluation) Find(start, end types.TimeString) (*EvaluatedSlot, bool) {
	for i := range e.Slots {
		if e.Slots[i].StartTime == start && e.Slots[i].EndTime == end {
			return &e.Slots[i], true
		}
	}
	return nil, false
}
