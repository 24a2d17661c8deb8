package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	settingsRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/settings"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/settings/models"
	"github.com/m04kA/HTM-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSettingsRepo struct {
	rows    map[int64]*domain.BookingSettings
	created int
}

func (f *fakeSettingsRepo) Get(ctx context.Context, therapistID int64) (*domain.BookingSettings, error) {
	s, ok := f.rows[therapistID]
	if !ok {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSettingsRepo) CreateDefault(ctx context.Context, therapistID int64) (*domain.BookingSettings, error) {
	f.created++
	f.rows[therapistID] = domain.DefaultBookingSettings(therapistID)
	return f.Get(ctx, therapistID)
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	copied := *s
	f.rows[s.TherapistProfileID] = &copied
	return f.Get(ctx, s.TherapistProfileID)
}

type fakeWeeklyRepo struct {
	slots    []*domain.WeeklyAvailabilitySlot
	replaced bool
}

func (f *fakeWeeklyRepo) GetByTherapist(ctx context.Context, therapistID int64) ([]*domain.WeeklyAvailabilitySlot, error) {
	return f.slots, nil
}

func (f *fakeWeeklyRepo) ReplaceForTherapist(ctx context.Context, therapistID int64, slots []*domain.WeeklyAvailabilitySlot) error {
	f.slots = slots
	f.replaced = true
	return nil
}

type fakeProfiles struct {
	profiles map[int64]*profileservice.TherapistProfile
}

func (f *fakeProfiles) GetTherapist(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error) {
	p, ok := f.profiles[therapistID]
	if !ok {
		return nil, profileservice.ErrTherapistNotFound
	}
	return p, nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *fakeSettingsRepo, *fakeWeeklyRepo) {
	settings := &fakeSettingsRepo{rows: map[int64]*domain.BookingSettings{}}
	weekly := &fakeWeeklyRepo{}
	profiles := &fakeProfiles{profiles: map[int64]*profileservice.TherapistProfile{
		7: {ID: 7, UserID: 100, IsActive: true},
	}}
	return NewService(settings, weekly, profiles, inlineTx{}, nopLogger{}), settings, weekly
}

func TestService_GetOrCreate_CreatesDefaultsOnce(t *testing.T) {
	svc, repo, _ := newTestService()

	first, err := svc.GetOrCreate(context.Background(), 7)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.created)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, first.SlotDurationMinutes)
	assert.Equal(t, domain.DefaultBufferMinutes, first.BufferMinutes)
	assert.True(t, first.RequiresApproval)
	assert.Equal(t, first.Timezone, second.Timezone)
}

func TestService_GetSettings_UnknownTherapistCreatesNothing(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.GetSettings(context.Background(), 8)

	assert.ErrorIs(t, err, ErrTherapistNotFound)
	assert.Zero(t, repo.created)
}

func TestService_Update_AppliesPatch(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{
		UserID:              100,
		TherapistProfileID:  7,
		SlotDurationMinutes: ptr.Ptr(45),
		Timezone:            ptr.Ptr("Europe/London"),
		RequiresApproval:    ptr.Ptr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, 45, resp.SlotDurationMinutes)
	assert.Equal(t, "Europe/London", resp.Timezone)
	assert.False(t, resp.RequiresApproval)
	assert.Equal(t, domain.DefaultBufferMinutes, resp.BufferMinutes)
}

func TestService_Update_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdateSettingsRequest
	}{
		{"slot too short", models.UpdateSettingsRequest{SlotDurationMinutes: ptr.Ptr(10)}},
		{"slot too long", models.UpdateSettingsRequest{SlotDurationMinutes: ptr.Ptr(241)}},
		{"buffer too long", models.UpdateSettingsRequest{BufferMinutes: ptr.Ptr(61)}},
		{"notice over a week", models.UpdateSettingsRequest{MinBookingNoticeHours: ptr.Ptr(169)}},
		{"zero days ahead", models.UpdateSettingsRequest{MaxBookingDaysAhead: ptr.Ptr(0)}},
		{"unknown timezone", models.UpdateSettingsRequest{Timezone: ptr.Ptr("Mars/Olympus")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			req := tt.req
			req.UserID = 100
			req.TherapistProfileID = 7

			_, err := svc.Update(context.Background(), &req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Update_AccessDenied(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{
		UserID:             999,
		TherapistProfileID: 7,
		BufferMinutes:      ptr.Ptr(0),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Update_TherapistNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{UserID: 100, TherapistProfileID: 8})

	assert.ErrorIs(t, err, ErrTherapistNotFound)
}

func TestService_ReplaceWeeklyAvailability(t *testing.T) {
	svc, _, weekly := newTestService()

	resp, err := svc.ReplaceWeeklyAvailability(context.Background(), &models.ReplaceWeeklyAvailabilityRequest{
		UserID:             100,
		TherapistProfileID: 7,
		Ranges: []models.WeeklyRange{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
			{DayOfWeek: 3, StartTime: "14:00:00", EndTime: "18:00"},
		},
	})

	require.NoError(t, err)
	assert.True(t, weekly.replaced)
	require.Len(t, resp.Ranges, 2)
	assert.Equal(t, "14:00", resp.Ranges[1].StartTime)
	assert.Equal(t, int64(7), weekly.slots[0].TherapistProfileID)
}

func TestService_ReplaceWeeklyAvailability_InvalidRanges(t *testing.T) {
	tests := []struct {
		name string
		rng  models.WeeklyRange
	}{
		{"day out of range", models.WeeklyRange{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}},
		{"negative day", models.WeeklyRange{DayOfWeek: -1, StartTime: "09:00", EndTime: "10:00"}},
		{"start after end", models.WeeklyRange{DayOfWeek: 1, StartTime: "12:00", EndTime: "09:00"}},
		{"empty range", models.WeeklyRange{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"}},
		{"bad time", models.WeeklyRange{DayOfWeek: 1, StartTime: "9am", EndTime: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, weekly := newTestService()

			_, err := svc.ReplaceWeeklyAvailability(context.Background(), &models.ReplaceWeeklyAvailabilityRequest{
				UserID:             100,
				TherapistProfileID: 7,
				Ranges:             []models.WeeklyRange{tt.rng},
			})

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.False(t, weekly.replaced)
		})
	}
}

func TestService_GetWeeklyAvailability_RequiresOwner(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetWeeklyAvailability(context.Background(), 7, 1)

	assert.ErrorIs(t, err, ErrAccessDenied)
}
