package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func bookingRow(id int64, status domain.BookingStatus) *sqlmock.Rows {
	now := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingColumns).AddRow(
		id, int64(7), nil,
		time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC),
		"10:00:00", "11:00:00", 60, 15, "online",
		"Jane", "jane@example.com", nil, nil, "tok",
		string(status), true,
		nil, nil, nil, nil, nil, nil,
		now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	b, err := repo.Create(context.Background(), &domain.Booking{
		TherapistProfileID: 7,
		StartTime:          "10:00",
		EndTime:            "11:00",
		Status:             domain.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

	_, err := repo.Create(context.Background(), &domain.Booking{StartTime: "10:00", EndTime: "11:00"})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(bookingRow(42, domain.StatusConfirmed))

	b, err := repo.GetByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, "10:00", b.StartTime.String())
	assert.Equal(t, domain.SessionOnline, b.SessionFormat)
	assert.Nil(t, b.ServiceID)
	assert.Nil(t, b.CancelledBy)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetActiveByTherapist_LocksInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE therapist_profile_id = \\$1 AND status IN \\(\\$2,\\$3\\)(.+)FOR UPDATE").
		WillReturnRows(bookingRow(1, domain.StatusPending))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	day := time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC)
	bookings, err := repo.GetActiveByTherapist(ctx, 7, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))

	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Confirm_StaleState(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("UPDATE bookings SET status = \\$1, confirmed_at = \\$2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Confirm(context.Background(), 42, time.Now())

	assert.ErrorIs(t, err, ErrStaleState)
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("UPDATE bookings SET status = \\$1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	reason := "sick"
	err := repo.Cancel(context.Background(), 42, domain.StatusConfirmed, &reason, domain.CancelledByVisitor, time.Now())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkReminderSent(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("UPDATE bookings SET reminder_1h_sent_at = \\$1(.+)reminder_1h_sent_at IS NULL").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET reminder_1h_sent_at = \\$1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.MarkReminderSent(context.Background(), 42, domain.Reminder1h, time.Now())
	require.NoError(t, err)
	second, err := repo.MarkReminderSent(context.Background(), 42, domain.Reminder1h, time.Now())
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}
