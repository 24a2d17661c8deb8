package calendarconnection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HTM-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий подключений внешних календарей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveByTherapist получает активное подключение календаря терапевта.
// Если активных несколько, берется последнее созданное.
func (r *Repository) GetActiveByTherapist(ctx context.Context, therapistID int64) (*domain.CalendarConnection, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"therapist_profile_id",
		"provider",
		"account_email",
		"access_token",
		"refresh_token",
		"token_expires_at",
		"is_active",
		"last_sync_at",
		"sync_error",
		"created_at",
		"updated_at",
	).
		From("calendar_connections").
		Where(squirrel.Eq{"therapist_profile_id": therapistID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByTherapist - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.CalendarConnection
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.TherapistProfileID,
		&c.Provider,
		&c.AccountEmail,
		&c.AccessToken,
		&c.RefreshToken,
		&c.TokenExpiresAt,
		&c.IsActive,
		&c.LastSyncAt,
		&c.SyncError,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConnectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByTherapist - scan connection: %v", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// UpdateSyncStatus сохраняет результат последней синхронизации (syncErr == nil - успех)
func (r *Repository) UpdateSyncStatus(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("calendar_connections").
		Set("last_sync_at", syncedAt).
		Set("sync_error", syncErr).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSyncStatus - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateSyncStatus - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// UpdateTokens сохраняет обновленные OAuth токены подключения
func (r *Repository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("calendar_connections").
		Set("access_token", accessToken).
		Set("refresh_token", refreshToken).
		Set("token_expires_at", expiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTokens - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateTokens - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
