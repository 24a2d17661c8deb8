package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HTM-BookingService/pkg/psqlbuilder"
)

const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

var bookingColumns = []string{
	"id",
	"therapist_profile_id",
	"service_id",
	"booking_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"buffer_minutes",
	"session_format",
	"visitor_name",
	"visitor_email",
	"visitor_phone",
	"visitor_notes",
	"visitor_token",
	"status",
	"is_verified",
	"confirmed_at",
	"cancelled_at",
	"cancellation_reason",
	"cancelled_by",
	"reminder_24h_sent_at",
	"reminder_1h_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Пересечение с активными бронированиями терапевта (с учетом буфера) отсекается
// ограничением EXCLUDE в БД и возвращается как ErrSlotNotAvailable
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"therapist_profile_id",
			"service_id",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"buffer_minutes",
			"session_format",
			"visitor_name",
			"visitor_email",
			"visitor_phone",
			"visitor_notes",
			"visitor_token",
			"status",
			"is_verified",
			"confirmed_at",
		).
		Values(
			booking.TherapistProfileID,
			booking.ServiceID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.BufferMinutes,
			booking.SessionFormat,
			booking.VisitorName,
			booking.VisitorEmail,
			booking.VisitorPhone,
			booking.VisitorNotes,
			booking.VisitorToken,
			booking.Status,
			booking.IsVerified,
			booking.ConfirmedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: Create - %v", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByVisitorToken получает бронирование по секретному токену посетителя
func (r *Repository) GetByVisitorToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByVisitorToken", squirrel.Eq{"visitor_token": token})
}

// GetActiveByTherapist получает активные (pending, confirmed) бронирования терапевта
// за период [fromDate, toDate] включительно, отсортированные по началу.
// Внутри транзакции строки блокируются (FOR UPDATE) - используется при создании бронирования.
func (r *Repository) GetActiveByTherapist(ctx context.Context, therapistID int64, fromDate, toDate time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"therapist_profile_id": therapistID}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.GtOrEq{"booking_date": fromDate}).
		Where(squirrel.LtOrEq{"booking_date": toDate}).
		OrderBy("booking_date ASC", "start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByTherapist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: GetActiveByTherapist - %v", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: GetActiveByTherapist - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByTherapistWithFilter получает бронирования терапевта с фильтрацией по периоду и статусу
func (r *Repository) GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"therapist_profile_id": filter.TherapistProfileID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	query, args, err := selectBuilder.OrderBy("booking_date ASC", "start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetReminderCandidates получает подтвержденные бронирования без отметки напоминания threshold
// в диапазоне дат [fromDate, toDate]. Точное попадание в окно проверяет вызывающий код
// по часовому поясу терапевта.
func (r *Repository) GetReminderCandidates(ctx context.Context, threshold domain.ReminderThreshold, fromDate, toDate time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Eq{reminderColumn(threshold): nil}).
		Where(squirrel.GtOrEq{"booking_date": fromDate}).
		Where(squirrel.LtOrEq{"booking_date": toDate}).
		OrderBy("booking_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetReminderCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetReminderCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// MarkVerified отмечает email посетителя как подтвержденный
func (r *Repository) MarkVerified(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("is_verified", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkVerified - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkVerified", query, args, ErrBookingNotFound)
}

// Confirm переводит pending(verified) бронирование в confirmed
// Если статус изменился параллельно, возвращает ErrStaleState
func (r *Repository) Confirm(ctx context.Context, id int64, confirmedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("confirmed_at", confirmedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Eq{"is_verified": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Confirm", query, args, ErrStaleState)
}

// UpdateStatus меняет статус с from на to (оптимистическая блокировка по статусу)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args, ErrStaleState)
}

// Cancel отменяет бронирование, ожидая текущий статус from
func (r *Repository) Cancel(
	ctx context.Context,
	id int64,
	from domain.BookingStatus,
	reason *string,
	by domain.CancelledBy,
	cancelledAt time.Time,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", by).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args, ErrStaleState)
}

// MarkReminderSent ставит отметку об отправке напоминания, если её еще нет.
// Возвращает false, если отметку уже поставил параллельный проход.
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, threshold domain.ReminderThreshold, sentAt time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	column := reminderColumn(threshold)

	query, args, err := psqlbuilder.Update("bookings").
		Set(column, sentAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{column: nil}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

func (r *Repository) execAffectingOne(
	ctx context.Context,
	executor DBExecutor,
	op string,
	query string,
	args []interface{},
	notAffected error,
) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return notAffected
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TherapistProfileID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationMinutes,
		&booking.BufferMinutes,
		&booking.SessionFormat,
		&booking.VisitorName,
		&booking.VisitorEmail,
		&booking.VisitorPhone,
		&booking.VisitorNotes,
		&booking.VisitorToken,
		&booking.Status,
		&booking.IsVerified,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
		&booking.CancellationReason,
		&booking.CancelledBy,
		&booking.Reminder24hSentAt,
		&booking.Reminder1hSentAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func reminderColumn(threshold domain.ReminderThreshold) string {
	if threshold == domain.Reminder24h {
		return "reminder_24h_sent_at"
	}
	return "reminder_1h_sent_at"
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pgExclusionViolation || pqErr.Code == pgSerializationFailure
}
