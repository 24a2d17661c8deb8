package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	settingsRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/settings"
	profileClient "github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/settings/models"
)

// Service сервис настроек бронирования и недельного шаблона терапевта
type Service struct {
	settingsRepo     SettingsRepository
	availabilityRepo WeeklyAvailabilityRepository
	profileClient    ProfileServiceClient
	txManager        TransactionManager
	validate         *validator.Validate
	logger           Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	availabilityRepo WeeklyAvailabilityRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo:     settingsRepo,
		availabilityRepo: availabilityRepo,
		profileClient:    profileClient,
		txManager:        txManager,
		validate:         validator.New(),
		logger:           logger,
	}
}

// GetOrCreate возвращает настройки терапевта, при первом обращении создает их со значениями по умолчанию
func (s *Service) GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, therapistID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("GetOrCreate: repository error for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: GetOrCreate - repository error: %v", ErrInternal, err)
	}

	// Параллельный запрос мог создать строку раньше - CreateDefault возвращает существующую
	settings, err = s.settingsRepo.CreateDefault(ctx, therapistID)
	if err != nil {
		s.logger.Error("GetOrCreate: failed to create default settings for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: GetOrCreate - create default: %v", ErrInternal, err)
	}

	s.logger.Info("GetOrCreate: created default settings for therapist=%d", therapistID)
	return settings, nil
}

// GetSettings публичный просмотр настроек
// Строка по умолчанию создается только для существующего профиля
func (s *Service) GetSettings(ctx context.Context, therapistID int64) (*models.SettingsResponse, error) {
	if _, err := s.profileClient.GetTherapist(ctx, therapistID); err != nil {
		if errors.Is(err, profileClient.ErrTherapistNotFound) {
			s.logger.Warn("GetSettings: therapist id=%d not found", therapistID)
			return nil, ErrTherapistNotFound
		}
		s.logger.Error("GetSettings: failed to get therapist id=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}

	settings, err := s.GetOrCreate(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings), nil
}

// Update частично обновляет настройки
// Доступно только владельцу профиля терапевта
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for therapist=%d by user=%d", req.TherapistProfileID, req.UserID)

	// 1. Валидируем переданные поля
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права доступа
	if err := s.checkOwner(ctx, "Update", req.TherapistProfileID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Получаем текущие настройки и применяем изменения
	settings, err := s.GetOrCreate(ctx, req.TherapistProfileID)
	if err != nil {
		return nil, err
	}
	req.ApplyToSettings(settings)

	// 4. Сохраняем
	updated, err := s.settingsRepo.Update(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error for therapist=%d: %v", req.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated settings for therapist=%d", req.TherapistProfileID)
	return models.FromDomainSettings(updated), nil
}

// GetWeeklyAvailability возвращает недельный шаблон терапевта
func (s *Service) GetWeeklyAvailability(ctx context.Context, therapistID, userID int64) (*models.WeeklyAvailabilityResponse, error) {
	if err := s.checkOwner(ctx, "GetWeeklyAvailability", therapistID, userID); err != nil {
		return nil, err
	}

	slots, err := s.availabilityRepo.GetByTherapist(ctx, therapistID)
	if err != nil {
		s.logger.Error("GetWeeklyAvailability: repository error for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: GetWeeklyAvailability - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeekly(therapistID, slots), nil
}

// ReplaceWeeklyAvailability заменяет недельный шаблон целиком в одной транзакции
func (s *Service) ReplaceWeeklyAvailability(ctx context.Context, req *models.ReplaceWeeklyAvailabilityRequest) (*models.WeeklyAvailabilityResponse, error) {
	s.logger.Info("ReplaceWeeklyAvailability: therapist=%d, ranges=%d by user=%d",
		req.TherapistProfileID, len(req.Ranges), req.UserID)

	// 1. Валидируем диапазоны
	slots, err := s.validateRanges(req)
	if err != nil {
		s.logger.Warn("ReplaceWeeklyAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if err := s.checkOwner(ctx, "ReplaceWeeklyAvailability", req.TherapistProfileID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Удаляем старый шаблон и вставляем новый атомарно
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.availabilityRepo.ReplaceForTherapist(ctx, req.TherapistProfileID, slots)
	})
	if err != nil {
		s.logger.Error("ReplaceWeeklyAvailability: failed for therapist=%d: %v", req.TherapistProfileID, err)
		return nil, fmt.Errorf("%w: ReplaceWeeklyAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWeeklyAvailability: successfully replaced template for therapist=%d", req.TherapistProfileID)
	return models.FromDomainWeekly(req.TherapistProfileID, slots), nil
}

// Вспомогательные методы

// checkOwner проверяет, что пользователь владеет профилем терапевта
func (s *Service) checkOwner(ctx context.Context, op string, therapistID, userID int64) error {
	profile, err := s.profileClient.GetTherapist(ctx, therapistID)
	if err != nil {
		if errors.Is(err, profileClient.ErrTherapistNotFound) {
			s.logger.Warn("%s: therapist id=%d not found", op, therapistID)
			return ErrTherapistNotFound
		}
		s.logger.Error("%s: failed to get therapist id=%d: %v", op, therapistID, err)
		return fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}

	if profile.UserID != userID {
		s.logger.Warn("%s: user=%d does not own therapist profile=%d", op, userID, therapistID)
		return ErrAccessDenied
	}

	return nil
}

// validateRanges проверяет диапазоны и конвертирует их в domain модели
func (s *Service) validateRanges(req *models.ReplaceWeeklyAvailabilityRequest) ([]*domain.WeeklyAvailabilitySlot, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slots := make([]*domain.WeeklyAvailabilitySlot, 0, len(req.Ranges))
	for i, r := range req.Ranges {
		slot, err := r.ToDomainSlot(req.TherapistProfileID)
		if err != nil {
			return nil, fmt.Errorf("%w: ranges[%d]: %v", ErrInvalidInput, i, err)
		}
		if !slot.StartTime.IsBefore(slot.EndTime) {
			return nil, fmt.Errorf("%w: ranges[%d]: startTime must be before endTime", ErrInvalidInput, i)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}
