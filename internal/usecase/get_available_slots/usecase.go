package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	profileClient "github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
)

// UseCase use case для получения доступных слотов терапевта на дату
type UseCase struct {
	engine        SlotEngine
	settings      SettingsProvider
	profileClient ProfileServiceClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	engine SlotEngine,
	settings SettingsProvider,
	profileClient ProfileServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		engine:        engine,
		settings:      settings,
		profileClient: profileClient,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: therapist=%d, date=%s", req.TherapistID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что терапевт существует
	if _, err := uc.profileClient.GetTherapist(ctx, req.TherapistID); err != nil {
		if errors.Is(err, profileClient.ErrTherapistNotFound) {
			uc.logger.Warn("GetAvailableSlots: therapist id=%d not found", req.TherapistID)
			return nil, ErrTherapistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get therapist id=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}

	// 4. Получаем настройки (создаются по умолчанию при первом обращении)
	settings, err := uc.settings.GetOrCreate(ctx, req.TherapistID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:        req.Date,
		TherapistID: req.TherapistID,
		Timezone:    settings.Timezone,
		Slots:       []Slot{},
	}

	// 5. Терапевт не принимает онлайн-записи
	if !settings.AcceptsOnlineBooking {
		uc.logger.Info("GetAvailableSlots: therapist=%d does not accept online booking", req.TherapistID)
		return resp, nil
	}

	// 6. Рассчитываем слоты
	evaluation, err := uc.engine.Evaluate(ctx, settings, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to evaluate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to evaluate slots: %v", ErrInternal, err)
	}

	for _, slot := range evaluation.Available() {
		resp.Slots = append(resp.Slots, Slot{StartTime: slot.StartTime, EndTime: slot.EndTime})
	}

	uc.logger.Info("GetAvailableSlots: %d free slots for therapist=%d, date=%s",
		len(resp.Slots), req.TherapistID, req.Date.Format(domain.DateFormat))

	return resp, nil
}
