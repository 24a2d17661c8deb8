package get_available_dates

import (
	"context"
	"errors"
	"fmt"
	"time"

	profileClient "github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
)

// UseCase use case для получения дат месяца, на которые есть свободные слоты
type UseCase struct {
	engine        DateEngine
	settings      SettingsProvider
	profileClient ProfileServiceClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	engine DateEngine,
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

// Execute выполняет use case получения доступных дат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableDates: therapist=%d, year=%d, month=%d", req.TherapistID, req.Year, req.Month)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableDates: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что терапевт существует
	if _, err := uc.profileClient.GetTherapist(ctx, req.TherapistID); err != nil {
		if errors.Is(err, profileClient.ErrTherapistNotFound) {
			uc.logger.Warn("GetAvailableDates: therapist id=%d not found", req.TherapistID)
			return nil, ErrTherapistNotFound
		}
		uc.logger.Error("GetAvailableDates: failed to get therapist id=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}

	// 3. Настройки терапевта
	settings, err := uc.settings.GetOrCreate(ctx, req.TherapistID)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	resp := &Response{
		TherapistID: req.TherapistID,
		Year:        req.Year,
		Month:       req.Month,
		Timezone:    settings.Timezone,
		Dates:       []time.Time{},
	}

	if !settings.AcceptsOnlineBooking {
		uc.logger.Info("GetAvailableDates: therapist=%d does not accept online booking", req.TherapistID)
		return resp, nil
	}

	// 4. Рассчитываем даты
	dates, err := uc.engine.Dates(ctx, settings, req.Year, time.Month(req.Month), uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to compute dates: %v", err)
		return nil, fmt.Errorf("%w: failed to compute dates: %v", ErrInternal, err)
	}
	resp.Dates = dates

	uc.logger.Info("GetAvailableDates: %d dates for therapist=%d, %04d-%02d",
		len(dates), req.TherapistID, req.Year, req.Month)
	return resp, nil
}
