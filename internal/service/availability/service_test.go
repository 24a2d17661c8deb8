package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTemplate struct {
	slots []*domain.WeeklyAvailabilitySlot
}

func (f *fakeTemplate) GetByTherapist(ctx context.Context, therapistID int64) ([]*domain.WeeklyAvailabilitySlot, error) {
	return f.slots, nil
}

type fakeBookings struct {
	bookings []*domain.Booking
}

func (f *fakeBookings) GetActiveByTherapist(ctx context.Context, therapistID int64, fromDate, toDate time.Time) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if !b.BookingDate.Before(fromDate) && !b.BookingDate.After(toDate) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeBusy struct {
	busy []domain.BusyInterval
	err  error
}

func (f *fakeBusy) BusyIntervals(ctx context.Context, therapistID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	return f.busy, f.err
}

// Воскресенье 18 октября 2026, 10:00 UTC
var sundayMorning = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

func scenarioSettings() *domain.BookingSettings {
	return &domain.BookingSettings{
		TherapistProfileID:    7,
		SlotDurationMinutes:   30,
		BufferMinutes:         15,
		MinBookingNoticeHours: 24,
		MaxBookingDaysAhead:   30,
		Timezone:              "UTC",
	}
}

func mondayTemplate() *fakeTemplate {
	return &fakeTemplate{slots: []*domain.WeeklyAvailabilitySlot{
		{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "12:00"},
	}}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func startTimes(slots []domain.TimeSlot) []types.TimeString {
	result := make([]types.TimeString, len(slots))
	for i, s := range slots {
		result[i] = s.StartTime
	}
	return result
}

func TestEngine_Evaluate_FullMonday(t *testing.T) {
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, nil, nopLogger{})

	evaluation, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 26), sundayMorning)

	require.NoError(t, err)
	available := evaluation.Available()
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, startTimes(available))
	for _, s := range available {
		assert.Equal(t, 30*time.Minute, s.EndsAt.Sub(s.StartsAt))
	}
	assert.Equal(t, types.TimeString("12:00"), available[5].EndTime)
}

func TestEngine_Evaluate_NoticeCutsTomorrowMorning(t *testing.T) {
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, nil, nopLogger{})

	evaluation, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 19), sundayMorning)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00", "11:30"}, startTimes(evaluation.Available()))

	slot, ok := evaluation.Find("09:30", "10:00")
	require.True(t, ok)
	assert.Equal(t, SlotTooSoon, slot.State)
}

func TestEngine_Evaluate_BufferAroundBooking(t *testing.T) {
	bookings := &fakeBookings{bookings: []*domain.Booking{{
		BookingDate: date(2026, time.October, 26),
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusConfirmed,
	}}}
	engine := NewEngine(mondayTemplate(), bookings, nil, nopLogger{})

	evaluation, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 26), sundayMorning)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "11:00", "11:30"}, startTimes(evaluation.Available()))

	slot, ok := evaluation.Find("09:30", "10:00")
	require.True(t, ok)
	assert.Equal(t, SlotBusy, slot.State)
}

func TestEngine_Evaluate_IgnoresCancelledBookings(t *testing.T) {
	bookings := &fakeBookings{bookings: []*domain.Booking{{
		BookingDate: date(2026, time.October, 26),
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusCancelled,
	}}}
	engine := NewEngine(mondayTemplate(), bookings, nil, nopLogger{})

	evaluation, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 26), sundayMorning)

	require.NoError(t, err)
	assert.Len(t, evaluation.Available(), 6)
}

func TestEngine_Evaluate_CalendarBusy(t *testing.T) {
	busy := &fakeBusy{busy: []domain.BusyInterval{{
		Start: time.Date(2026, time.October, 26, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.October, 26, 11, 20, 0, 0, time.UTC),
	}}}
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, busy, nopLogger{})

	evaluation, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 26), sundayMorning)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, startTimes(evaluation.Available()))
}

func TestEngine_Evaluate_CalendarFailureDegrades(t *testing.T) {
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, &fakeBusy{err: errors.New("provider down")}, nopLogger{})

	evaluation, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 26), sundayMorning)

	require.NoError(t, err)
	assert.Len(t, evaluation.Available(), 6)
}

func TestEngine_Evaluate_Horizon(t *testing.T) {
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, nil, nopLogger{})

	past, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 12), sundayMorning)
	require.NoError(t, err)
	assert.Equal(t, HorizonPast, past.Horizon)
	assert.Empty(t, past.Available())

	far, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.November, 23), sundayMorning)
	require.NoError(t, err)
	assert.Equal(t, HorizonTooFarAhead, far.Horizon)
	assert.Empty(t, far.Available())
}

func TestEngine_Evaluate_EmptyWeekday(t *testing.T) {
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, nil, nopLogger{})

	evaluation, err := engine.Evaluate(context.Background(), scenarioSettings(), date(2026, time.October, 27), sundayMorning)

	require.NoError(t, err)
	assert.Empty(t, evaluation.Available())
}

func TestEngine_Evaluate_TherapistTimezone(t *testing.T) {
	settings := scenarioSettings()
	settings.Timezone = "America/New_York"
	settings.MinBookingNoticeHours = 0
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, nil, nopLogger{})

	// 09:00 в Нью-Йорке (EDT) = 13:00 UTC
	now := time.Date(2026, time.October, 19, 13, 10, 0, 0, time.UTC)
	evaluation, err := engine.Evaluate(context.Background(), settings, date(2026, time.October, 19), now)

	require.NoError(t, err)
	available := evaluation.Available()
	assert.Equal(t, []types.TimeString{"09:30", "10:00", "10:30", "11:00", "11:30"}, startTimes(available))
	assert.Equal(t, time.Date(2026, time.October, 19, 13, 30, 0, 0, time.UTC), available[0].StartsAt.UTC())
}

func TestEngine_Dates(t *testing.T) {
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, nil, nopLogger{})

	october, err := engine.Dates(context.Background(), scenarioSettings(), 2026, time.October, sundayMorning)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2026, time.October, 19), date(2026, time.October, 26)}, october)

	november, err := engine.Dates(context.Background(), scenarioSettings(), 2026, time.November, sundayMorning)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2026, time.November, 2), date(2026, time.November, 9), date(2026, time.November, 16)}, november)

	september, err := engine.Dates(context.Background(), scenarioSettings(), 2026, time.September, sundayMorning)
	require.NoError(t, err)
	assert.Empty(t, september)
}

func TestEngine_Dates_SkipsFullyBookedDay(t *testing.T) {
	bookings := &fakeBookings{bookings: []*domain.Booking{{
		BookingDate: date(2026, time.October, 19),
		StartTime:   "09:00",
		EndTime:     "12:00",
		Status:      domain.StatusPending,
	}}}
	engine := NewEngine(mondayTemplate(), bookings, nil, nopLogger{})

	dates, err := engine.Dates(context.Background(), scenarioSettings(), 2026, time.October, sundayMorning)

	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2026, time.October, 26)}, dates)
}

func TestEngine_Dates_InvalidMonth(t *testing.T) {
	engine := NewEngine(mondayTemplate(), &fakeBookings{}, nil, nopLogger{})

	_, err := engine.Dates(context.Background(), scenarioSettings(), 2026, time.Month(13), sundayMorning)

	assert.ErrorIs(t, err, ErrInvalidMonth)
}
