package settings

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

func settingsRow(therapistID int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(settingsColumns).AddRow(
		therapistID, 50, 10, 12, 30, "Europe/Berlin",
		false, true, true, false, now, now,
	)
}

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM booking_settings WHERE therapist_profile_id = \\$1").
		WithArgs(int64(7)).
		WillReturnRows(settingsRow(7))

	s, err := repo.Get(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 50, s.SlotDurationMinutes)
	assert.Equal(t, "Europe/Berlin", s.Timezone)
	assert.False(t, s.RequiresApproval)
	assert.False(t, s.SendTherapistReminders)
}

func TestRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM booking_settings").WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), 7)

	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestRepository_CreateDefault_IgnoresConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	d := domain.DefaultBookingSettings(7)
	mock.ExpectExec("INSERT INTO booking_settings (.+) ON CONFLICT \\(therapist_profile_id\\) DO NOTHING").
		WithArgs(int64(7), d.SlotDurationMinutes, d.BufferMinutes, d.MinBookingNoticeHours, d.MaxBookingDaysAhead,
			d.Timezone, d.RequiresApproval, d.AcceptsOnlineBooking, d.SendVisitorReminders, d.SendTherapistReminders).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM booking_settings").
		WillReturnRows(settingsRow(7))

	s, err := repo.CreateDefault(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), s.TherapistProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	now := time.Now()
	mock.ExpectQuery("UPDATE booking_settings SET (.+) RETURNING created_at, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	s := domain.DefaultBookingSettings(7)
	s.BufferMinutes = 0
	updated, err := repo.Update(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, 0, updated.BufferMinutes)
	assert.Equal(t, now, updated.UpdatedAt)
}
