package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/infra/storage/calendarconnection"
)

// Source источник занятого времени из подключенного календаря терапевта
type Source struct {
	connections ConnectionRepository
	providers   map[domain.CalendarProvider]Provider
	oauth       map[domain.CalendarProvider]*oauth2.Config
	timeout     time.Duration
	log         Logger
	time        TimeProvider
}

// NewSource создает новый источник занятости
func NewSource(connections ConnectionRepository, timeout time.Duration, log Logger, timeProvider TimeProvider) *Source {
	return &Source{
		connections: connections,
		providers:   make(map[domain.CalendarProvider]Provider),
		oauth:       make(map[domain.CalendarProvider]*oauth2.Config),
		timeout:     timeout,
		log:         log,
		time:        timeProvider,
	}
}

// Register подключает провайдера вместе с его OAuth конфигурацией
func (s *Source) Register(kind domain.CalendarProvider, provider Provider, oauthConfig *oauth2.Config) {
	s.providers[kind] = provider
	s.oauth[kind] = oauthConfig
}

// BusyIntervals возвращает занятые интервалы терапевта в [from, to).
// Отсутствие подключения - пустой результат без ошибки.
// Любой сбой провайдера записывается в sync_error подключения и возвращается как ErrProviderUnavailable.
func (s *Source) BusyIntervals(ctx context.Context, therapistID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	conn, err := s.connections.GetActiveByTherapist(ctx, therapistID)
	if errors.Is(err, calendarconnection.ErrConnectionNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("BusyIntervals: failed to get calendar connection, therapist_profile_id=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: therapist_profile_id=%d: %v", ErrProviderUnavailable, therapistID, err)
	}

	provider, ok := s.providers[conn.Provider]
	if !ok {
		s.log.Warn("BusyIntervals: provider %s is not configured, therapist_profile_id=%d", conn.Provider, therapistID)
		return nil, fmt.Errorf("%w: %w: %s", ErrProviderUnavailable, ErrUnsupportedProvider, conn.Provider)
	}

	token := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
	}
	if conn.TokenExpiresAt != nil {
		token.Expiry = *conn.TokenExpiresAt
	}

	tokenSource := s.oauth[conn.Provider].TokenSource(ctx, token)
	client := oauth2.NewClient(ctx, tokenSource)
	client.Timeout = s.timeout

	busy, err := provider.BusyIntervals(ctx, client, conn, from, to)
	now := s.time.Now()

	if err != nil {
		syncErr := err.Error()
		if updErr := s.connections.UpdateSyncStatus(ctx, conn.ID, now, &syncErr); updErr != nil {
			s.log.Warn("BusyIntervals: failed to record sync error, connection_id=%d: %v", conn.ID, updErr)
		}
		s.log.Error("BusyIntervals: provider %s failed, therapist_profile_id=%d: %v", conn.Provider, therapistID, err)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if updErr := s.connections.UpdateSyncStatus(ctx, conn.ID, now, nil); updErr != nil {
		s.log.Warn("BusyIntervals: failed to record sync status, connection_id=%d: %v", conn.ID, updErr)
	}

	s.persistRefreshedToken(ctx, conn, tokenSource)

	return busy, nil
}

// persistRefreshedToken сохраняет токен, если oauth2 обновил его во время запроса
func (s *Source) persistRefreshedToken(ctx context.Context, conn *domain.CalendarConnection, tokenSource oauth2.TokenSource) {
	fresh, err := tokenSource.Token()
	if err != nil || fresh.AccessToken == conn.AccessToken {
		return
	}

	var expiresAt *time.Time
	if !fresh.Expiry.IsZero() {
		expiry := fresh.Expiry
		expiresAt = &expiry
	}

	refreshToken := fresh.RefreshToken
	if refreshToken == "" {
		refreshToken = conn.RefreshToken
	}

	if err := s.connections.UpdateTokens(ctx, conn.ID, fresh.AccessToken, refreshToken, expiresAt); err != nil {
		s.log.Warn("BusyIntervals: failed to persist refreshed token, connection_id=%d: %v", conn.ID, err)
	}
}
