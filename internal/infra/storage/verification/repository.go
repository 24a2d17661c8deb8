package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HTM-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий токенов подтверждения email и списка доверенных адресов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подтверждений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет токен подтверждения
func (r *Repository) Create(ctx context.Context, v *domain.EmailVerification) (*domain.EmailVerification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("email_verifications").
		Columns("token", "booking_id", "visitor_email", "expires_at").
		Values(v.Token, v.BookingID, normalizeEmail(v.VisitorEmail), v.ExpiresAt).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	v.CreatedAt = createdAt.Time

	return v, nil
}

// GetByToken получает запись подтверждения по токену
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.EmailVerification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"token",
		"booking_id",
		"visitor_email",
		"verified_at",
		"expires_at",
		"created_at",
	).
		From("email_verifications").
		Where(squirrel.Eq{"token": token}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - build select query: %v", ErrBuildQuery, err)
	}

	var v domain.EmailVerification
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.Token,
		&v.BookingID,
		&v.VisitorEmail,
		&v.VerifiedAt,
		&v.ExpiresAt,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVerificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - scan verification: %v", ErrScanRow, err)
	}

	v.CreatedAt = createdAt.Time

	return &v, nil
}

// MarkVerified погашает токен. Возвращает false, если токен уже погашен
// (например, параллельным запросом).
func (r *Repository) MarkVerified(ctx context.Context, token string, verifiedAt time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("email_verifications").
		Set("verified_at", verifiedAt).
		Where(squirrel.Eq{"token": token}).
		Where(squirrel.Eq{"verified_at": nil}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkVerified - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkVerified - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkVerified - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// IsTrusted проверяет, подтверждал ли посетитель этот email у терапевта ранее
func (r *Repository) IsTrusted(ctx context.Context, therapistID int64, email string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("trusted_visitor_emails").
		Where(squirrel.Eq{"therapist_profile_id": therapistID}).
		Where(squirrel.Eq{"email": normalizeEmail(email)}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsTrusted - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsTrusted - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// AddTrusted добавляет email в список доверенных адресов терапевта (идемпотентно)
func (r *Repository) AddTrusted(ctx context.Context, therapistID int64, email string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("trusted_visitor_emails").
		Columns("therapist_profile_id", "email").
		Values(therapistID, normalizeEmail(email)).
		Suffix("ON CONFLICT (therapist_profile_id, email) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddTrusted - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddTrusted - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
