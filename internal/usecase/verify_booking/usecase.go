package verify_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/booking"
	verificationRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/verification"
)

// UseCase use case для подтверждения email посетителя
type UseCase struct {
	verificationRepo VerificationRepository
	bookingRepo      BookingRepository
	settings         SettingsProvider
	notifier         Notifier
	txManager        TransactionManager
	policy           domain.ConfirmationPolicy
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	verificationRepo VerificationRepository,
	bookingRepo BookingRepository,
	settings SettingsProvider,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		verificationRepo: verificationRepo,
		bookingRepo:      bookingRepo,
		settings:         settings,
		notifier:         notifier,
		txManager:        txManager,
		policy:           domain.DefaultConfirmationPolicy,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute подтверждает email по токену
// Повторный вызов с тем же токеном возвращает AlreadyVerified без повторных писем
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Ищем токен
	verification, err := uc.verificationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, verificationRepo.ErrVerificationNotFound) {
			uc.logger.Warn("VerifyBooking: token not found")
			return nil, ErrTokenNotFound
		}
		uc.logger.Error("VerifyBooking: failed to get verification: %v", err)
		return nil, fmt.Errorf("%w: failed to get verification: %v", ErrInternal, err)
	}

	if verification.IsVerified() {
		return uc.alreadyVerified(ctx, verification.BookingID)
	}

	if verification.IsExpired(now) {
		uc.logger.Warn("VerifyBooking: token for booking id=%d expired at %s", verification.BookingID, verification.ExpiresAt)
		return nil, ErrTokenExpired
	}

	// 3. Бронирование и настройки терапевта
	booking, err := uc.bookingRepo.GetByID(ctx, verification.BookingID)
	if err != nil {
		uc.logger.Error("VerifyBooking: failed to get booking id=%d: %v", verification.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	settings, err := uc.settings.GetOrCreate(ctx, booking.TherapistProfileID)
	if err != nil {
		uc.logger.Error("VerifyBooking: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	var first, active, confirmed bool

	// 4. Выполняем операции с БД в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Погашаем токен, проигравший параллельный вызов получает false
		first, err = uc.verificationRepo.MarkVerified(txCtx, token, now)
		if err != nil {
			uc.logger.Error("VerifyBooking: failed to mark token verified: %v", err)
			return fmt.Errorf("%w: failed to mark token verified: %v", ErrInternal, err)
		}
		if !first {
			return nil
		}

		// 4.2. Перечитываем бронирование под блокировкой: посетитель мог отменить его до подтверждения email
		current, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("VerifyBooking: failed to reload booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}
		booking = current
		if booking.Status != domain.StatusPending {
			return nil
		}
		active = true

		// 4.3. Отмечаем бронирование и запоминаем email
		if err := uc.bookingRepo.MarkVerified(txCtx, booking.ID); err != nil {
			uc.logger.Error("VerifyBooking: failed to mark booking id=%d verified: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to mark booking verified: %v", ErrInternal, err)
		}
		booking.IsVerified = true

		if err := uc.verificationRepo.AddTrusted(txCtx, booking.TherapistProfileID, booking.VisitorEmail); err != nil {
			uc.logger.Error("VerifyBooking: failed to add trusted email: %v", err)
			return fmt.Errorf("%w: failed to add trusted email: %v", ErrInternal, err)
		}

		// 4.4. Автоподтверждение, если терапевт не требует ручного одобрения
		if !booking.CanBeConfirmed() || !uc.policy.AutoConfirm(settings) {
			return nil
		}
		if err := uc.bookingRepo.Confirm(txCtx, booking.ID, now); err != nil {
			if errors.Is(err, bookingRepo.ErrStaleState) {
				uc.logger.Warn("VerifyBooking: booking id=%d changed concurrently, skip auto-confirm", booking.ID)
				return nil
			}
			uc.logger.Error("VerifyBooking: failed to confirm booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}
		booking.Status = domain.StatusConfirmed
		booking.ConfirmedAt = &now
		confirmed = true

		return nil
	})

	if err != nil {
		return nil, err
	}

	if !first {
		return uc.alreadyVerified(ctx, booking.ID)
	}

	if !active {
		uc.logger.Warn("VerifyBooking: booking id=%d is %s, token consumed without notifications", booking.ID, booking.Status)
		return &Response{
			Success:   true,
			BookingID: booking.ID,
			Status:    string(booking.Status),
		}, nil
	}

	uc.logger.Info("VerifyBooking: booking id=%d verified, status=%s", booking.ID, booking.Status)

	// 5. Письма после фиксации транзакции
	uc.notifier.NotifyNewRequest(ctx, booking, settings)
	if confirmed {
		uc.notifier.SendConfirmation(ctx, booking, settings)
	}

	return &Response{
		Success:   true,
		BookingID: booking.ID,
		Status:    string(booking.Status),
	}, nil
}

func (uc *UseCase) alreadyVerified(ctx context.Context, bookingID int64) (*Response, error) {
	uc.logger.Info("VerifyBooking: booking id=%d already verified", bookingID)

	resp := &Response{Success: true, AlreadyVerified: true, BookingID: bookingID}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		uc.logger.Warn("VerifyBooking: failed to load booking id=%d: %v", bookingID, err)
		return resp, nil
	}
	resp.Status = string(booking.Status)

	return resp, nil
}
