package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/booking"
	profileClient "github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/availability"
	"github.com/m04kA/HTM-BookingService/pkg/token"
	"github.com/m04kA/HTM-BookingService/pkg/txmanager"
	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// Результаты попытки бронирования для метрик
const (
	resultCreated     = "created"
	resultUnavailable = "slot_unavailable"
	resultRejected    = "rejected"
	resultError       = "error"
)

// UseCase use case для создания бронирования посетителем
type UseCase struct {
	bookingRepo      BookingRepository
	verificationRepo VerificationRepository
	engine           SlotEngine
	settings         SettingsProvider
	profileClient    ProfileServiceClient
	notifier         Notifier
	metrics          Metrics
	txManager        TransactionManager
	policy           domain.ConfirmationPolicy
	verificationTTL  time.Duration
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	verificationRepo VerificationRepository,
	engine SlotEngine,
	settings SettingsProvider,
	profileClient ProfileServiceClient,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	verificationTTL time.Duration,
	logger Logger,
) *UseCase {
	if verificationTTL <= 0 {
		verificationTTL = domain.DefaultVerificationTTL
	}

	return &UseCase{
		bookingRepo:      bookingRepo,
		verificationRepo: verificationRepo,
		engine:           engine,
		settings:         settings,
		profileClient:    profileClient,
		notifier:         notifier,
		metrics:          metrics,
		txManager:        txManager,
		policy:           domain.DefaultConfirmationPolicy,
		verificationTTL:  verificationTTL,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования
// Слот перепроверяется в сериализуемой транзакции, ограничение EXCLUDE в БД закрывает оставшиеся гонки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.IncBookingSubmission(submissionResult(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: therapist=%d, date=%s, time=%s-%s",
		req.TherapistID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация полей формы
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)

	// 3. Проверяем терапевта
	if _, err := uc.profileClient.GetTherapist(ctx, req.TherapistID); err != nil {
		if errors.Is(err, profileClient.ErrTherapistNotFound) {
			uc.logger.Warn("SubmitBooking: therapist id=%d not found", req.TherapistID)
			return nil, ErrTherapistNotFound
		}
		uc.logger.Error("SubmitBooking: failed to get therapist id=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}

	// 4. Настройки терапевта
	settings, err := uc.settings.GetOrCreate(ctx, req.TherapistID)
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	if !settings.AcceptsOnlineBooking {
		uc.logger.Warn("SubmitBooking: therapist=%d does not accept online booking", req.TherapistID)
		return nil, ErrOnlineBookingDisabled
	}

	// 5. Проверяем слот тем же движком, что и список слотов
	start, end, err := resolveSlotTimes(req, settings.SlotDurationMinutes)
	if err != nil {
		uc.logger.Warn("SubmitBooking: %v", err)
		return nil, err
	}

	evaluation, err := uc.engine.Evaluate(ctx, settings, date, now)
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to evaluate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to evaluate slots: %v", ErrInternal, err)
	}

	slot, err := checkSlot(evaluation, start, end)
	if err != nil {
		uc.logger.Warn("SubmitBooking: slot %s-%s on %s rejected: %v", start, end, date.Format(domain.DateFormat), err)
		return nil, err
	}

	// 6. Доверенный email пропускает подтверждение
	trusted, err := uc.verificationRepo.IsTrusted(ctx, req.TherapistID, req.VisitorEmail)
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to check trusted email: %v", err)
		return nil, fmt.Errorf("%w: failed to check trusted email: %v", ErrInternal, err)
	}

	booking := &domain.Booking{
		TherapistProfileID: req.TherapistID,
		ServiceID:          req.ServiceID,
		BookingDate:        date,
		StartTime:          start,
		EndTime:            end,
		DurationMinutes:    settings.SlotDurationMinutes,
		BufferMinutes:      settings.BufferMinutes,
		SessionFormat:      sessionFormat(req),
		VisitorName:        req.VisitorName,
		VisitorEmail:       req.VisitorEmail,
		VisitorPhone:       req.VisitorPhone,
		VisitorNotes:       req.VisitorNotes,
		VisitorToken:       token.New(),
		Status:             domain.StatusPending,
		IsVerified:         trusted,
	}
	if trusted && uc.policy.AutoConfirm(settings) {
		booking.Status = domain.StatusConfirmed
		booking.ConfirmedAt = &now
	}

	var (
		created           *domain.Booking
		verificationToken string
	)

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Блокируем активные бронирования терапевта на соседних датах (FOR UPDATE)
		active, err := uc.bookingRepo.GetActiveByTherapist(txCtx, req.TherapistID, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to get active bookings: %v", err)
			return fmt.Errorf("%w: failed to get active bookings: %v", ErrInternal, err)
		}

		// 7.2. Перепроверяем пересечение под блокировкой
		if conflict := overlapsActive(slot, active, settings); conflict != nil {
			uc.logger.Warn("SubmitBooking: slot overlaps booking id=%d", conflict.ID)
			return ErrSlotUnavailable
		}

		// 7.3. Сохраняем бронирование
		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("SubmitBooking: exclusion constraint rejected slot: %v", err)
				return ErrSlotUnavailable
			}
			uc.logger.Error("SubmitBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		if trusted {
			return nil
		}

		// 7.4. Токен подтверждения email
		verificationToken = token.New()
		_, err = uc.verificationRepo.Create(txCtx, &domain.EmailVerification{
			Token:        verificationToken,
			BookingID:    created.ID,
			VisitorEmail: created.VisitorEmail,
			ExpiresAt:    now.Add(uc.verificationTTL),
		})
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to create verification: %v", err)
			return fmt.Errorf("%w: failed to create verification: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("SubmitBooking: serialization conflict for therapist=%d: %v", req.TherapistID, err)
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	uc.logger.Info("SubmitBooking: successfully created booking id=%d, status=%s, verified=%t",
		created.ID, created.Status, created.IsVerified)

	// 8. Письма после фиксации транзакции
	switch {
	case !trusted:
		uc.notifier.SendVerification(ctx, created, settings, verificationToken)
	case created.Status == domain.StatusConfirmed:
		uc.notifier.NotifyNewRequest(ctx, created, settings)
		uc.notifier.SendConfirmation(ctx, created, settings)
	default:
		uc.notifier.NotifyNewRequest(ctx, created, settings)
	}

	return &Response{
		ID:                   created.ID,
		TherapistProfileID:   created.TherapistProfileID,
		BookingDate:          created.BookingDate,
		StartTime:            created.StartTime,
		EndTime:              created.EndTime,
		DurationMinutes:      created.DurationMinutes,
		SessionFormat:        string(created.SessionFormat),
		Status:               string(created.Status),
		IsVerified:           created.IsVerified,
		VisitorToken:         created.VisitorToken,
		RequiresVerification: !trusted,
		CreatedAt:            created.CreatedAt,
	}, nil
}

// checkSlot сверяет запрошенный интервал с расчетом движка
func checkSlot(evaluation *availability.Evaluation, start, end types.TimeString) (domain.TimeSlot, error) {
	switch evaluation.Horizon {
	case availability.HorizonPast:
		return domain.TimeSlot{}, ErrInvalidDate
	case availability.HorizonTooFarAhead:
		return domain.TimeSlot{}, ErrDateTooFarInFuture
	}

	slot, ok := evaluation.Find(start, end)
	if !ok {
		return domain.TimeSlot{}, ErrInvalidTimeSlot
	}

	switch slot.State {
	case availability.SlotTooSoon:
		return domain.TimeSlot{}, ErrTooLateToBook
	case availability.SlotBusy:
		return domain.TimeSlot{}, ErrSlotUnavailable
	}

	return slot.TimeSlot, nil
}

func submissionResult(err error) string {
	switch {
	case err == nil:
		return resultCreated
	case errors.Is(err, ErrSlotUnavailable):
		return resultUnavailable
	case errors.Is(err, ErrInternal):
		return resultError
	default:
		return resultRejected
	}
}
