package bookings

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/booking"
	profileClient "github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с существующими бронированиями
type Service struct {
	bookingRepo   BookingRepository
	settings      SettingsProvider
	profileClient ProfileServiceClient
	notifier      Notifier
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	settings SettingsProvider,
	profileClient ProfileServiceClient,
	notifier Notifier,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		settings:      settings,
		profileClient: profileClient,
		notifier:      notifier,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Доступно только терапевту, к которому оно относится
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwner(ctx, "GetByID", booking.TherapistProfileID, userID); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetByVisitorToken возвращает бронирование по приватной ссылке посетителя
func (s *Service) GetByVisitorToken(ctx context.Context, token string) (*models.VisitorBookingResponse, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByVisitorToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByVisitorToken: booking not found")
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByVisitorToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByVisitorToken - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainVisitorBooking(booking), nil
}

// GetTherapistBookings получает бронирования терапевта с фильтрацией по периоду и статусу
func (s *Service) GetTherapistBookings(ctx context.Context, req *models.GetTherapistBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTherapistBookings: fetching bookings for therapist=%d, user=%d, status=%v",
		req.TherapistProfileID, req.UserID, req.Status)

	if err := s.checkOwner(ctx, "GetTherapistBookings", req.TherapistProfileID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTherapistBookings: invalid filter for therapist=%d: %v", req.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByTherapistWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTherapistBookings: repository error for therapist=%d: %v", req.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: GetTherapistBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTherapistBookings: successfully fetched %d bookings for therapist=%d",
		len(bookings), req.TherapistProfileID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в confirmed, completed или no_show
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	switch status {
	case domain.StatusConfirmed:
		return s.Confirm(ctx, bookingID, req.UserID)
	case domain.StatusCompleted:
		return s.MarkCompleted(ctx, bookingID, req.UserID)
	case domain.StatusNoShow:
		return s.MarkNoShow(ctx, bookingID, req.UserID)
	default:
		s.logger.Warn("UpdateStatus: status=%s cannot be set directly on booking id=%d", status, bookingID)
		return nil, fmt.Errorf("%w: status %s cannot be set directly", ErrInvalidInput, status)
	}
}

// Confirm подтверждает бронирование терапевтом
// Разрешено только для pending с подтвержденным email посетителя
func (s *Service) Confirm(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d by user=%d", bookingID, userID)

	// 1. Получаем бронирование и проверяем права
	booking, err := s.getBooking(ctx, "Confirm", bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, "Confirm", booking.TherapistProfileID, userID); err != nil {
		return nil, err
	}

	// 2. Проверяем допустимость перехода
	if booking.Status == domain.StatusPending && !booking.IsVerified {
		s.logger.Warn("Confirm: booking id=%d is not verified", bookingID)
		return nil, ErrNotVerified
	}
	if !booking.CanBeConfirmed() {
		s.logger.Warn("Confirm: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	// 3. Подтверждаем (оптимистичная проверка статуса в WHERE)
	if err := s.bookingRepo.Confirm(ctx, bookingID, s.timeProvider.Now()); err != nil {
		return nil, s.mapTransitionError("Confirm", bookingID, err)
	}

	// 4. Уведомляем посетителя
	confirmed, err := s.getBooking(ctx, "Confirm", bookingID)
	if err != nil {
		return nil, err
	}
	if settings, err := s.settings.GetOrCreate(ctx, confirmed.TherapistProfileID); err == nil {
		s.notifier.SendConfirmation(ctx, confirmed, settings)
	} else {
		s.logger.Warn("Confirm: skipping notification for booking id=%d: %v", bookingID, err)
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return models.FromDomainBooking(confirmed), nil
}

// Cancel отменяет бронирование
// Терапевт отменяет по X-User-ID, посетитель - по своему visitor token
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	// 1. Валидируем причину
	if req.CancellationReason != nil &&
		utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason is too long", ErrInvalidInput)
	}

	// 2. Получаем бронирование
	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// 3. Определяем, кто отменяет
	var by domain.CancelledBy
	switch {
	case req.VisitorToken != nil && *req.VisitorToken != "":
		if subtle.ConstantTimeCompare([]byte(*req.VisitorToken), []byte(booking.VisitorToken)) != 1 {
			s.logger.Warn("Cancel: visitor token mismatch for booking id=%d", bookingID)
			return nil, ErrAccessDenied
		}
		by = domain.CancelledByVisitor
	case req.UserID != nil:
		if err := s.checkOwner(ctx, "Cancel", booking.TherapistProfileID, *req.UserID); err != nil {
			return nil, err
		}
		by = domain.CancelledByTherapist
	default:
		s.logger.Warn("Cancel: no credentials for booking id=%d", bookingID)
		return nil, ErrAccessDenied
	}

	// 4. Проверяем, можно ли отменить
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	// 5. Отменяем, ожидая прочитанный статус
	if err := s.bookingRepo.Cancel(ctx, bookingID, booking.Status, req.CancellationReason, by, s.timeProvider.Now()); err != nil {
		return nil, s.mapTransitionError("Cancel", bookingID, err)
	}

	// 6. Уведомляем вторую сторону
	cancelled, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}
	if settings, err := s.settings.GetOrCreate(ctx, cancelled.TherapistProfileID); err == nil {
		s.notifier.SendCancellation(ctx, cancelled, settings)
	} else {
		s.logger.Warn("Cancel: skipping notification for booking id=%d: %v", bookingID, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d by %s", bookingID, by)
	return models.FromDomainBooking(cancelled), nil
}

// MarkCompleted отмечает состоявшуюся сессию
func (s *Service) MarkCompleted(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	return s.finish(ctx, "MarkCompleted", bookingID, userID, domain.StatusCompleted)
}

// MarkNoShow отмечает неявку посетителя
func (s *Service) MarkNoShow(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	return s.finish(ctx, "MarkNoShow", bookingID, userID, domain.StatusNoShow)
}

// Вспомогательные методы

// finish закрывает подтвержденную сессию после её окончания
func (s *Service) finish(ctx context.Context, op string, bookingID, userID int64, to domain.BookingStatus) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d by user=%d", op, bookingID, userID)

	booking, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, op, booking.TherapistProfileID, userID); err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusConfirmed || !booking.CanTransitionTo(to) {
		s.logger.Warn("%s: booking id=%d has status=%s", op, bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	settings, err := s.settings.GetOrCreate(ctx, booking.TherapistProfileID)
	if err != nil {
		s.logger.Error("%s: failed to get settings for therapist=%d: %v", op, booking.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: %s - settings: %v", ErrInternal, op, err)
	}

	if !booking.HasEnded(s.timeProvider.Now(), settings.Location()) {
		s.logger.Warn("%s: booking id=%d has not ended yet", op, bookingID)
		return nil, ErrSessionNotEnded
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusConfirmed, to); err != nil {
		return nil, s.mapTransitionError(op, bookingID, err)
	}

	booking.Status = to
	s.logger.Info("%s: booking id=%d is now %s", op, bookingID, to)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) mapTransitionError(op string, bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrStaleState) {
		s.logger.Warn("%s: booking id=%d was modified concurrently", op, bookingID)
		return ErrStaleState
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// checkOwner проверяет, что пользователь владеет профилем терапевта
func (s *Service) checkOwner(ctx context.Context, op string, therapistID, userID int64) error {
	profile, err := s.profileClient.GetTherapist(ctx, therapistID)
	if err != nil {
		if errors.Is(err, profileClient.ErrTherapistNotFound) {
			s.logger.Warn("%s: therapist id=%d not found", op, therapistID)
			return ErrTherapistNotFound
		}
		s.logger.Error("%s: failed to get therapist id=%d: %v", op, therapistID, err)
		return fmt.Errorf("%w: %s - failed to get therapist: %v", ErrInternal, op, err)
	}

	if profile.UserID != userID {
		s.logger.Warn("%s: user=%d does not own therapist profile=%d", op, userID, therapistID)
		return ErrAccessDenied
	}

	return nil
}
