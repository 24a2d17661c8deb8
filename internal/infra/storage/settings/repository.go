package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HTM-BookingService/pkg/psqlbuilder"
)

var settingsColumns = []string{
	"therapist_profile_id",
	"slot_duration_minutes",
	"buffer_minutes",
	"min_booking_notice_hours",
	"max_booking_days_ahead",
	"timezone",
	"requires_approval",
	"accepts_online_booking",
	"send_visitor_reminders",
	"send_therapist_reminders",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек бронирования терапевтов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки терапевта
func (r *Repository) Get(ctx context.Context, therapistID int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("booking_settings").
		Where(squirrel.Eq{"therapist_profile_id": therapistID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.TherapistProfileID,
		&s.SlotDurationMinutes,
		&s.BufferMinutes,
		&s.MinBookingNoticeHours,
		&s.MaxBookingDaysAhead,
		&s.Timezone,
		&s.RequiresApproval,
		&s.AcceptsOnlineBooking,
		&s.SendVisitorReminders,
		&s.SendTherapistReminders,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// CreateDefault создает настройки по умолчанию, если их еще нет, и возвращает актуальную строку.
// Параллельное создание не приводит к ошибке (ON CONFLICT DO NOTHING).
func (r *Repository) CreateDefault(ctx context.Context, therapistID int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	d := domain.DefaultBookingSettings(therapistID)

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns(
			"therapist_profile_id",
			"slot_duration_minutes",
			"buffer_minutes",
			"min_booking_notice_hours",
			"max_booking_days_ahead",
			"timezone",
			"requires_approval",
			"accepts_online_booking",
			"send_visitor_reminders",
			"send_therapist_reminders",
		).
		Values(
			d.TherapistProfileID,
			d.SlotDurationMinutes,
			d.BufferMinutes,
			d.MinBookingNoticeHours,
			d.MaxBookingDaysAhead,
			d.Timezone,
			d.RequiresApproval,
			d.AcceptsOnlineBooking,
			d.SendVisitorReminders,
			d.SendTherapistReminders,
		).
		Suffix("ON CONFLICT (therapist_profile_id) DO NOTHING").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateDefault - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateDefault - execute insert: %v", ErrExecQuery, err)
	}

	return r.Get(ctx, therapistID)
}

// Update обновляет настройки терапевта
func (r *Repository) Update(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_settings").
		Set("slot_duration_minutes", s.SlotDurationMinutes).
		Set("buffer_minutes", s.BufferMinutes).
		Set("min_booking_notice_hours", s.MinBookingNoticeHours).
		Set("max_booking_days_ahead", s.MaxBookingDaysAhead).
		Set("timezone", s.Timezone).
		Set("requires_approval", s.RequiresApproval).
		Set("accepts_online_booking", s.AcceptsOnlineBooking).
		Set("send_visitor_reminders", s.SendVisitorReminders).
		Set("send_therapist_reminders", s.SendTherapistReminders).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"therapist_profile_id": s.TherapistProfileID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}
