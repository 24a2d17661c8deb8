package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/bookings/models"
	"github.com/m04kA/HTM-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeRepo повторяет условные UPDATE репозитория в памяти
type fakeRepo struct {
	bookings map[int64]*domain.Booking
	// staleOnce имитирует параллельное изменение перед следующим UPDATE
	staleOnce bool
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) GetByVisitorToken(ctx context.Context, token string) (*domain.Booking, error) {
	for _, b := range f.bookings {
		if b.VisitorToken == token {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeRepo) GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.TherapistProfileID != filter.TherapistProfileID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeRepo) transition(id int64, from domain.BookingStatus, apply func(b *domain.Booking)) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != from || f.staleOnce {
		f.staleOnce = false
		return bookingRepo.ErrStaleState
	}
	apply(b)
	return nil
}

func (f *fakeRepo) Confirm(ctx context.Context, id int64, confirmedAt time.Time) error {
	return f.transition(id, domain.StatusPending, func(b *domain.Booking) {
		b.Status = domain.StatusConfirmed
		b.ConfirmedAt = &confirmedAt
	})
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	return f.transition(id, from, func(b *domain.Booking) { b.Status = to })
}

func (f *fakeRepo) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string, by domain.CancelledBy, cancelledAt time.Time) error {
	return f.transition(id, from, func(b *domain.Booking) {
		b.Status = domain.StatusCancelled
		b.CancellationReason = reason
		b.CancelledBy = &by
		b.CancelledAt = &cancelledAt
	})
}

type fakeSettings struct{}

func (fakeSettings) GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error) {
	return domain.DefaultBookingSettings(therapistID), nil
}

type fakeProfiles struct{}

func (fakeProfiles) GetTherapist(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error) {
	if therapistID != 7 {
		return nil, profileservice.ErrTherapistNotFound
	}
	return &profileservice.TherapistProfile{ID: 7, UserID: 100, IsActive: true}, nil
}

type recordingNotifier struct {
	confirmations []int64
	cancellations []int64
}

func (r *recordingNotifier) SendConfirmation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings) {
	r.confirmations = append(r.confirmations, b.ID)
}

func (r *recordingNotifier) SendCancellation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings) {
	r.cancellations = append(r.cancellations, b.ID)
}

// Сессия 26 октября 2026, 10:00-11:00 UTC
var sessionDay = time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC)

func newBooking(id int64, status domain.BookingStatus, verified bool) *domain.Booking {
	return &domain.Booking{
		ID:                 id,
		TherapistProfileID: 7,
		BookingDate:        sessionDay,
		StartTime:          "10:00",
		EndTime:            "11:00",
		VisitorName:        "Jane",
		VisitorEmail:       "jane@example.com",
		VisitorToken:       "visitor-tok",
		Status:             status,
		IsVerified:         verified,
	}
}

func newTestService(now time.Time, bookings ...*domain.Booking) (*Service, *fakeRepo, *recordingNotifier) {
	repo := &fakeRepo{bookings: map[int64]*domain.Booking{}}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	notifier := &recordingNotifier{}
	svc := NewService(repo, fakeSettings{}, fakeProfiles{}, notifier, fixedTime{now: now}, nopLogger{})
	return svc, repo, notifier
}

var beforeSession = time.Date(2026, time.October, 20, 9, 0, 0, 0, time.UTC)

func TestService_Confirm(t *testing.T) {
	svc, repo, notifier := newTestService(beforeSession, newBooking(1, domain.StatusPending, true))

	resp, err := svc.Confirm(context.Background(), 1, 100)

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[1].Status)
	assert.Equal(t, []int64{1}, notifier.confirmations)
}

func TestService_Confirm_RequiresVerification(t *testing.T) {
	svc, repo, notifier := newTestService(beforeSession, newBooking(1, domain.StatusPending, false))

	_, err := svc.Confirm(context.Background(), 1, 100)

	assert.ErrorIs(t, err, ErrNotVerified)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
	assert.Empty(t, notifier.confirmations)
}

func TestService_Confirm_WrongOwner(t *testing.T) {
	svc, _, _ := newTestService(beforeSession, newBooking(1, domain.StatusPending, true))

	_, err := svc.Confirm(context.Background(), 1, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Confirm_StaleState(t *testing.T) {
	svc, repo, _ := newTestService(beforeSession, newBooking(1, domain.StatusPending, true))
	repo.staleOnce = true

	_, err := svc.Confirm(context.Background(), 1, 100)

	assert.ErrorIs(t, err, ErrStaleState)
}

func TestService_Confirm_AlreadyConfirmed(t *testing.T) {
	svc, _, _ := newTestService(beforeSession, newBooking(1, domain.StatusConfirmed, true))

	_, err := svc.Confirm(context.Background(), 1, 100)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Cancel_ByVisitorToken(t *testing.T) {
	svc, repo, notifier := newTestService(beforeSession, newBooking(1, domain.StatusConfirmed, true))

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		VisitorToken:       ptr.Ptr("visitor-tok"),
		CancellationReason: ptr.Ptr("sick"),
	})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, domain.CancelledByVisitor, *repo.bookings[1].CancelledBy)
	assert.Equal(t, []int64{1}, notifier.cancellations)
}

func TestService_Cancel_WrongVisitorToken(t *testing.T) {
	svc, _, _ := newTestService(beforeSession, newBooking(1, domain.StatusPending, false))

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{VisitorToken: ptr.Ptr("other")})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Cancel_ByTherapist(t *testing.T) {
	svc, repo, _ := newTestService(beforeSession, newBooking(1, domain.StatusPending, false))

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: ptr.Ptr(int64(100))})

	require.NoError(t, err)
	assert.Equal(t, domain.CancelledByTherapist, *repo.bookings[1].CancelledBy)
}

func TestService_Cancel_Terminal(t *testing.T) {
	svc, _, _ := newTestService(beforeSession, newBooking(1, domain.StatusCompleted, true))

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: ptr.Ptr(int64(100))})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_Cancel_NoCredentials(t *testing.T) {
	svc, _, _ := newTestService(beforeSession, newBooking(1, domain.StatusPending, false))

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_MarkCompleted(t *testing.T) {
	afterSession := time.Date(2026, time.October, 26, 11, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(afterSession, newBooking(1, domain.StatusConfirmed, true))

	resp, err := svc.MarkCompleted(context.Background(), 1, 100)

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, domain.StatusCompleted, repo.bookings[1].Status)
}

func TestService_MarkNoShow_BeforeEnd(t *testing.T) {
	duringSession := time.Date(2026, time.October, 26, 10, 30, 0, 0, time.UTC)
	svc, _, _ := newTestService(duringSession, newBooking(1, domain.StatusConfirmed, true))

	_, err := svc.MarkNoShow(context.Background(), 1, 100)

	assert.ErrorIs(t, err, ErrSessionNotEnded)
}

func TestService_MarkCompleted_FromPending(t *testing.T) {
	afterSession := time.Date(2026, time.October, 27, 0, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(afterSession, newBooking(1, domain.StatusPending, true))

	_, err := svc.MarkCompleted(context.Background(), 1, 100)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_UpdateStatus_RejectsDirectCancel(t *testing.T) {
	svc, _, _ := newTestService(beforeSession, newBooking(1, domain.StatusPending, true))

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: 100, Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: 100, Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetByVisitorToken(t *testing.T) {
	svc, _, _ := newTestService(beforeSession, newBooking(1, domain.StatusPending, false))

	resp, err := svc.GetByVisitorToken(context.Background(), "visitor-tok")
	require.NoError(t, err)
	assert.True(t, resp.CanCancel)

	_, err = svc.GetByVisitorToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.GetByVisitorToken(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetTherapistBookings_FiltersStatus(t *testing.T) {
	svc, _, _ := newTestService(beforeSession,
		newBooking(1, domain.StatusPending, false),
		newBooking(2, domain.StatusConfirmed, true),
	)

	resp, err := svc.GetTherapistBookings(context.Background(), &models.GetTherapistBookingsRequest{
		UserID:             100,
		TherapistProfileID: 7,
		Status:             ptr.Ptr("confirmed"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)
}
