package run_reminder_pass

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

const defaultLockTTL = 5 * time.Minute

// UseCase use case прохода напоминаний
//
// Гарантия доставки at-least-once: отметка reminder_X_sent_at пишется после отправки,
// падение между отправкой и отметкой приведет к повторному письму на следующем проходе.
// Условный UPDATE ... WHERE reminder_X_sent_at IS NULL и блокировка в Redis исключают
// дубли при параллельных проходах.
type UseCase struct {
	bookingRepo  BookingRepository
	settings     SettingsProvider
	notifier     Notifier
	locker       Locker
	metrics      Metrics
	lockTTL      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. locker и metrics могут быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	settings SettingsProvider,
	notifier Notifier,
	locker Locker,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		settings:     settings,
		notifier:     notifier,
		locker:       locker,
		metrics:      metrics,
		lockTTL:      cfg.LockTTL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет один проход по окнам 24h и 1h
// Ошибка по одному бронированию не прерывает проход, она попадает в Summary.Errors
func (uc *UseCase) Execute(ctx context.Context) (*Summary, error) {
	now := uc.timeProvider.Now()
	summary := &Summary{Errors: []string{}}
	settingsCache := make(map[int64]*domain.BookingSettings)
	failedWindows := 0

	uc.logger.Info("RunReminderPass: started at %s", now.UTC().Format(time.RFC3339))

	for _, threshold := range domain.ReminderThresholds {
		// 1. Кандидаты по датам вокруг окна (±1 день покрывает любой часовой пояс)
		_, to := threshold.Window()
		center := now.Add(to).UTC()
		day := time.Date(center.Year(), center.Month(), center.Day(), 0, 0, 0, 0, time.UTC)

		candidates, err := uc.bookingRepo.GetReminderCandidates(ctx, threshold, day.AddDate(0, 0, -2), day.AddDate(0, 0, 1))
		if err != nil {
			uc.logger.Error("RunReminderPass: failed to get %s candidates: %v", threshold, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: failed to get candidates: %v", threshold, err))
			failedWindows++
			continue
		}

		for _, b := range candidates {
			if ctx.Err() != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: pass interrupted: %v", threshold, ctx.Err()))
				return summary, nil
			}

			// 2. Настройки терапевта (кэш на время прохода)
			settings, ok := settingsCache[b.TherapistProfileID]
			if !ok {
				settings, err = uc.settings.GetOrCreate(ctx, b.TherapistProfileID)
				if err != nil {
					uc.logger.Error("RunReminderPass: failed to get settings for therapist=%d: %v", b.TherapistProfileID, err)
					summary.Errors = append(summary.Errors, fmt.Sprintf("booking %d (%s): failed to get settings: %v", b.ID, threshold, err))
					uc.metrics.IncReminderError(string(threshold))
					continue
				}
				settingsCache[b.TherapistProfileID] = settings
			}

			// 3. Точная проверка окна по часовому поясу терапевта
			if !threshold.InWindow(b.StartsAt(settings.Location()), now) {
				continue
			}

			sent, errs := uc.remind(ctx, b, settings, threshold, now)
			for _, e := range errs {
				summary.Errors = append(summary.Errors, fmt.Sprintf("booking %d (%s): %v", b.ID, threshold, e))
				uc.metrics.IncReminderError(string(threshold))
			}
			if !sent {
				continue
			}

			uc.metrics.IncReminderSent(string(threshold))
			if threshold == domain.Reminder24h {
				summary.Reminders24hSent++
			} else {
				summary.Reminders1hSent++
			}
		}
	}

	if failedWindows == len(domain.ReminderThresholds) {
		return nil, fmt.Errorf("%w: %v", ErrInternal, summary.Errors)
	}

	uc.logger.Info("RunReminderPass: finished, 24h=%d, 1h=%d, errors=%d",
		summary.Reminders24hSent, summary.Reminders1hSent, len(summary.Errors))

	return summary, nil
}

// remind отправляет напоминания по одному бронированию и ставит отметку
// Отметка ставится, если хотя бы одно письмо ушло или отправлять было некому
func (uc *UseCase) remind(
	ctx context.Context,
	b *domain.Booking,
	settings *domain.BookingSettings,
	threshold domain.ReminderThreshold,
	now time.Time,
) (bool, []error) {
	// 1. Забираем бронирование у параллельных проходов
	if uc.locker != nil {
		key := fmt.Sprintf("reminder:%d:%s", b.ID, threshold)
		value, ok, err := uc.locker.TryLock(ctx, key, uc.lockTTL)
		switch {
		case err != nil:
			uc.logger.Warn("RunReminderPass: lock unavailable for booking id=%d, relying on sent_at guard: %v", b.ID, err)
		case !ok:
			uc.logger.Info("RunReminderPass: booking id=%d (%s) is handled by another pass", b.ID, threshold)
			return false, nil
		default:
			defer func() {
				if err := uc.locker.Unlock(ctx, key, value); err != nil {
					uc.logger.Warn("RunReminderPass: failed to release lock %s: %v", key, err)
				}
			}()
		}
	}

	// 2. Перечитываем бронирование под блокировкой: список кандидатов мог устареть
	current, err := uc.bookingRepo.GetByID(ctx, b.ID)
	if err != nil {
		uc.logger.Error("RunReminderPass: failed to reload booking id=%d: %v", b.ID, err)
		return false, []error{fmt.Errorf("reload: %w", err)}
	}
	if current.Status != domain.StatusConfirmed || current.ReminderSentAt(threshold) != nil {
		uc.logger.Info("RunReminderPass: booking id=%d (%s) already reminded or no longer confirmed", b.ID, threshold)
		return false, nil
	}

	// 3. Отправляем письма согласно настройкам
	var (
		errs      []error
		attempted int
		delivered int
	)

	if settings.SendVisitorReminders {
		attempted++
		if err := uc.notifier.SendVisitorReminder(ctx, b, settings, threshold); err != nil {
			uc.logger.Error("RunReminderPass: visitor reminder for booking id=%d failed: %v", b.ID, err)
			errs = append(errs, fmt.Errorf("visitor reminder: %w", err))
		} else {
			delivered++
		}
	}

	if settings.SendTherapistReminders {
		attempted++
		if err := uc.notifier.SendTherapistReminder(ctx, b, settings, threshold); err != nil {
			uc.logger.Error("RunReminderPass: therapist reminder for booking id=%d failed: %v", b.ID, err)
			errs = append(errs, fmt.Errorf("therapist reminder: %w", err))
		} else {
			delivered++
		}
	}

	if attempted > 0 && delivered == 0 {
		return false, errs
	}

	// 4. Отметка после отправки
	stamped, err := uc.bookingRepo.MarkReminderSent(ctx, b.ID, threshold, now)
	if err != nil {
		uc.logger.Error("RunReminderPass: failed to stamp booking id=%d (%s): %v", b.ID, threshold, err)
		return false, append(errs, fmt.Errorf("stamp: %w", err))
	}
	if !stamped {
		uc.logger.Warn("RunReminderPass: booking id=%d (%s) was stamped concurrently", b.ID, threshold)
		return false, errs
	}

	uc.logger.Info("RunReminderPass: booking id=%d reminded (%s), delivered=%d/%d", b.ID, threshold, delivered, attempted)

	return delivered > 0, errs
}
