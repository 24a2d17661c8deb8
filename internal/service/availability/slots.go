package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// generateTimeSlots нарезает диапазоны шаблона на дату в слоты фиксированной длины.
// Хвост короче длительности слота отбрасывается, пересекающиеся диапазоны
// дают каждый слот один раз. Слоты, время которых не существует в часовом поясе
// терапевта (переход на летнее время), пропускаются.
func generateTimeSlots(
	template []*domain.WeeklyAvailabilitySlot,
	date time.Time,
	slotDuration int,
	loc *time.Location,
) ([]domain.TimeSlot, error) {
	if slotDuration <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive", ErrInvalidTemplate)
	}

	seen := make(map[types.TimeString]bool)
	slots := make([]domain.TimeSlot, 0)

	for _, r := range template {
		if !r.AppliesTo(date) {
			continue
		}
		if err := r.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		if err := r.EndTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}

		current := r.StartTime
		for current.IsBefore(r.EndTime) {
			slotEnd, err := current.AddMinutes(slotDuration)
			if err != nil || slotEnd.IsAfter(r.EndTime) {
				break
			}

			if !seen[current] {
				seen[current] = true
				if slot, ok := materialize(current, slotEnd, date, loc); ok {
					slots = append(slots, slot)
				}
			}

			current = slotEnd
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots, nil
}

// materialize переводит настенное время слота в моменты времени
func materialize(start, end types.TimeString, date time.Time, loc *time.Location) (domain.TimeSlot, bool) {
	startsAt, ok := start.On(date, loc)
	if !ok {
		return domain.TimeSlot{}, false
	}
	endsAt, ok := end.On(date, loc)
	if !ok {
		return domain.TimeSlot{}, false
	}
	return domain.TimeSlot{
		StartTime: start,
		EndTime:   end,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}, true
}

// evaluateDay размечает слоты дня: свободен, слишком рано или занят
func evaluateDay(
	settings *domain.BookingSettings,
	template []*domain.WeeklyAvailabilitySlot,
	busy []domain.BusyInterval,
	date time.Time,
	now time.Time,
) (*Evaluation, error) {
	loc := settings.Location()
	evaluation := &Evaluation{
		Date:    date,
		Horizon: horizonOf(date, now, loc, settings.MaxBookingDaysAhead),
	}

	slots, err := generateTimeSlots(template, date, settings.SlotDurationMinutes, loc)
	if err != nil {
		return nil, err
	}

	earliest := now.Add(settings.MinNotice())
	buffer := settings.Buffer()

	evaluation.Slots = make([]EvaluatedSlot, 0, len(slots))
	for _, slot := range slots {
		state := SlotAvailable
		if slot.StartsAt.Before(earliest) {
			state = SlotTooSoon
		} else if overlapsAny(slot, busy, buffer) {
			state = SlotBusy
		}
		evaluation.Slots = append(evaluation.Slots, EvaluatedSlot{TimeSlot: slot, State: state})
	}

	return evaluation, nil
}

func overlapsAny(slot domain.TimeSlot, busy []domain.BusyInterval, buffer time.Duration) bool {
	for _, b := range busy {
		if domain.Overlaps(slot.StartsAt, slot.EndsAt, b, buffer) {
			return true
		}
	}
	return false
}

// bookingIntervals переводит активные бронирования в интервалы занятости
func bookingIntervals(bookings []*domain.Booking, loc *time.Location) []domain.BusyInterval {
	intervals := make([]domain.BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		intervals = append(intervals, domain.BusyInterval{
			Start: b.StartsAt(loc),
			End:   b.EndsAt(loc),
		})
	}
	return intervals
}

// horizonOf определяет положение даты относительно окна бронирования (по календарю терапевта)
func horizonOf(date, now time.Time, loc *time.Location, maxDaysAhead int) Horizon {
	today := CivilDate(now, loc)
	switch {
	case date.Before(today):
		return HorizonPast
	case date.After(today.AddDate(0, 0, maxDaysAhead)):
		return HorizonTooFarAhead
	default:
		return HorizonOpen
	}
}

// CivilDate возвращает календарную дату момента t в часовом поясе loc (00:00 UTC)
func CivilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayStart возвращает начало календарной даты в часовом поясе loc
func dayStart(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
