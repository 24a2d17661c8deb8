package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HTM-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий недельного шаблона доступности терапевта
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTherapist получает все диапазоны доступности терапевта
func (r *Repository) GetByTherapist(ctx context.Context, therapistID int64) ([]*domain.WeeklyAvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"therapist_profile_id",
		"day_of_week",
		"start_time",
		"end_time",
		"created_at",
	).
		From("weekly_availability").
		Where(squirrel.Eq{"therapist_profile_id": therapistID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapist - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.WeeklyAvailabilitySlot, 0)

	for rows.Next() {
		var slot domain.WeeklyAvailabilitySlot
		var createdAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.TherapistProfileID,
			&slot.DayOfWeek,
			&slot.StartTime,
			&slot.EndTime,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByTherapist - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTherapist - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// ReplaceForTherapist заменяет недельный шаблон терапевта целиком.
// Вызывается внутри транзакции, чтобы удаление и вставка применились атомарно.
func (r *Repository) ReplaceForTherapist(ctx context.Context, therapistID int64, slots []*domain.WeeklyAvailabilitySlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_availability").
		Where(squirrel.Eq{"therapist_profile_id": therapistID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceForTherapist - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForTherapist - execute delete: %v", ErrExecQuery, err)
	}

	if len(slots) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("weekly_availability").
		Columns("therapist_profile_id", "day_of_week", "start_time", "end_time")

	for _, slot := range slots {
		insertBuilder = insertBuilder.Values(therapistID, slot.DayOfWeek, slot.StartTime, slot.EndTime)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForTherapist - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForTherapist - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
