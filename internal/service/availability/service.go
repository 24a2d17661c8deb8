package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

// Engine движок расчета свободных слотов
type Engine struct {
	availabilityRepo WeeklyAvailabilityRepository
	bookingRepo      BookingRepository
	busySource       BusySource
	logger           Logger
}

// NewEngine создает движок. busySource может быть nil, если календари не подключены.
func NewEngine(
	availabilityRepo WeeklyAvailabilityRepository,
	bookingRepo BookingRepository,
	busySource BusySource,
	logger Logger,
) *Engine {
	return &Engine{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		busySource:       busySource,
		logger:           logger,
	}
}

// Evaluate рассчитывает слоты терапевта на календарную дату date
func (e *Engine) Evaluate(ctx context.Context, settings *domain.BookingSettings, date time.Time, now time.Time) (*Evaluation, error) {
	loc := settings.Location()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	// 1. Дата вне окна бронирования - слоты не считаем
	horizon := horizonOf(date, now, loc, settings.MaxBookingDaysAhead)
	if horizon != HorizonOpen {
		return &Evaluation{Date: date, Horizon: horizon, Slots: []EvaluatedSlot{}}, nil
	}

	// 2. Недельный шаблон
	template, err := e.availabilityRepo.GetByTherapist(ctx, settings.TherapistProfileID)
	if err != nil {
		e.logger.Error("Evaluate: failed to get weekly template, therapist_profile_id=%d: %v", settings.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: Evaluate - get weekly template: %v", ErrInternal, err)
	}

	// 3. Занятость: бронирования соседних дат + внешний календарь
	busy, err := e.busyBetween(ctx, settings, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return evaluateDay(settings, template, busy, date, now)
}

// Dates возвращает даты месяца, на которые есть хотя бы один свободный слот
func (e *Engine) Dates(ctx context.Context, settings *domain.BookingSettings, year int, month time.Month, now time.Time) ([]time.Time, error) {
	if month < time.January || month > time.December || year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year=%d month=%d", ErrInvalidMonth, year, month)
	}

	loc := settings.Location()
	today := CivilDate(now, loc)
	lastAllowed := today.AddDate(0, 0, settings.MaxBookingDaysAhead)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	// 1. Обрезаем месяц окном бронирования
	if first.Before(today) {
		first = today
	}
	if last.After(lastAllowed) {
		last = lastAllowed
	}

	dates := make([]time.Time, 0)
	if first.After(last) {
		return dates, nil
	}

	// 2. Недельный шаблон
	template, err := e.availabilityRepo.GetByTherapist(ctx, settings.TherapistProfileID)
	if err != nil {
		e.logger.Error("Dates: failed to get weekly template, therapist_profile_id=%d: %v", settings.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: Dates - get weekly template: %v", ErrInternal, err)
	}
	if len(template) == 0 {
		return dates, nil
	}

	// 3. Занятость на весь диапазон одним запросом
	busy, err := e.busyBetween(ctx, settings, first.AddDate(0, 0, -1), last.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	// 4. Проверяем каждый день
	for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
		evaluation, err := evaluateDay(settings, template, busy, date, now)
		if err != nil {
			return nil, err
		}
		if len(evaluation.Available()) > 0 {
			dates = append(dates, date)
		}
	}

	return dates, nil
}

// busyBetween собирает занятость за календарные даты [fromDate, toDate].
// Сбой внешнего календаря не прерывает расчет: считаем, что внешней занятости нет.
func (e *Engine) busyBetween(ctx context.Context, settings *domain.BookingSettings, fromDate, toDate time.Time) ([]domain.BusyInterval, error) {
	loc := settings.Location()

	bookings, err := e.bookingRepo.GetActiveByTherapist(ctx, settings.TherapistProfileID, fromDate, toDate)
	if err != nil {
		e.logger.Error("busyBetween: failed to get bookings, therapist_profile_id=%d: %v", settings.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: get active bookings: %v", ErrInternal, err)
	}

	busy := bookingIntervals(bookings, loc)

	if e.busySource == nil {
		return busy, nil
	}

	external, err := e.busySource.BusyIntervals(ctx, settings.TherapistProfileID, dayStart(fromDate, loc), dayStart(toDate.AddDate(0, 0, 1), loc))
	if err != nil {
		e.logger.Warn("busyBetween: calendar busy time unavailable, therapist_profile_id=%d, proceeding without it: %v",
			settings.TherapistProfileID, err)
		return busy, nil
	}

	return append(busy, external...), nil
}
