package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/availability"
	"github.com/m04kA/HTM-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeTemplate struct{}

func (fakeTemplate) GetByTherapist(ctx context.Context, therapistID int64) ([]*domain.WeeklyAvailabilitySlot, error) {
	return []*domain.WeeklyAvailabilitySlot{
		{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "12:00"},
	}, nil
}

type fakeBookings struct {
	bookings []*domain.Booking
}

func (f *fakeBookings) GetActiveByTherapist(ctx context.Context, therapistID int64, fromDate, toDate time.Time) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeSettings struct {
	settings *domain.BookingSettings
	err      error
}

func (f *fakeSettings) GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error) {
	return f.settings, f.err
}

type fakeProfiles struct {
	err error
}

func (f *fakeProfiles) GetTherapist(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &profileservice.TherapistProfile{ID: therapistID, UserID: 100, IsActive: true}, nil
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
		AcceptsOnlineBooking:  true,
	}
}

func newTestUseCase(bookings *fakeBookings, settings *fakeSettings, profiles *fakeProfiles) *UseCase {
	engine := availability.NewEngine(fakeTemplate{}, bookings, nil, nopLogger{})
	uc := NewUseCase(engine, settings, profiles, nopLogger{})
	uc.timeProvider = fixedTime{now: sundayMorning}
	return uc
}

func starts(slots []Slot) []types.TimeString {
	result := make([]types.TimeString, len(slots))
	for i, s := range slots {
		result[i] = s.StartTime
	}
	return result
}

func TestUseCase_Execute_MondayNextWeek(t *testing.T) {
	uc := newTestUseCase(&fakeBookings{}, &fakeSettings{settings: scenarioSettings()}, &fakeProfiles{})

	resp, err := uc.Execute(context.Background(), &Request{
		TherapistID: 7,
		Date:        time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t,
		[]types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		starts(resp.Slots))
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].EndTime)
}

func TestUseCase_Execute_NoticeCutsTomorrow(t *testing.T) {
	uc := newTestUseCase(&fakeBookings{}, &fakeSettings{settings: scenarioSettings()}, &fakeProfiles{})

	resp, err := uc.Execute(context.Background(), &Request{
		TherapistID: 7,
		Date:        time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00", "11:30"}, starts(resp.Slots))
}

func TestUseCase_Execute_BufferAroundExistingBooking(t *testing.T) {
	bookings := &fakeBookings{bookings: []*domain.Booking{{
		ID:          1,
		BookingDate: time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusConfirmed,
	}}}
	uc := newTestUseCase(bookings, &fakeSettings{settings: scenarioSettings()}, &fakeProfiles{})

	resp, err := uc.Execute(context.Background(), &Request{
		TherapistID: 7,
		Date:        time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "11:00", "11:30"}, starts(resp.Slots))
}

func TestUseCase_Execute_NotAcceptingOnlineBooking(t *testing.T) {
	settings := scenarioSettings()
	settings.AcceptsOnlineBooking = false
	uc := newTestUseCase(&fakeBookings{}, &fakeSettings{settings: settings}, &fakeProfiles{})

	resp, err := uc.Execute(context.Background(), &Request{
		TherapistID: 7,
		Date:        time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_TherapistNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookings{}, &fakeSettings{settings: scenarioSettings()},
		&fakeProfiles{err: profileservice.ErrTherapistNotFound})

	_, err := uc.Execute(context.Background(), &Request{TherapistID: 7, Date: sundayMorning})

	assert.ErrorIs(t, err, ErrTherapistNotFound)
}

func TestUseCase_Execute_SettingsFailure(t *testing.T) {
	uc := newTestUseCase(&fakeBookings{}, &fakeSettings{err: errors.New("db down")}, &fakeProfiles{})

	_, err := uc.Execute(context.Background(), &Request{TherapistID: 7, Date: sundayMorning})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookings{}, &fakeSettings{settings: scenarioSettings()}, &fakeProfiles{})

	_, err := uc.Execute(context.Background(), &Request{TherapistID: 0, Date: sundayMorning})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{TherapistID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
