package calendar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/infra/storage/calendarconnection"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeConnections struct {
	conn      *domain.CalendarConnection
	err       error
	syncErr   *string
	synced    bool
	newAccess string
}

func (f *fakeConnections) GetActiveByTherapist(ctx context.Context, therapistID int64) (*domain.CalendarConnection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conn, nil
}

func (f *fakeConnections) UpdateSyncStatus(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error {
	f.synced = true
	f.syncErr = syncErr
	return nil
}

func (f *fakeConnections) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error {
	f.newAccess = accessToken
	return nil
}

type fakeProvider struct {
	busy []domain.BusyInterval
	err  error
}

func (f *fakeProvider) BusyIntervals(ctx context.Context, client *http.Client, conn *domain.CalendarConnection, from, to time.Time) ([]domain.BusyInterval, error) {
	return f.busy, f.err
}

func newTestSource(conns *fakeConnections, provider Provider, tokenURL string) *Source {
	src := NewSource(conns, time.Second, nopLogger{}, fixedTime{now: time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)})
	src.Register(domain.CalendarGoogle, provider, &oauth2.Config{
		ClientID: "id",
		Endpoint: oauth2.Endpoint{TokenURL: tokenURL},
	})
	return src
}

func TestSource_NoConnection(t *testing.T) {
	conns := &fakeConnections{err: calendarconnection.ErrConnectionNotFound}
	src := newTestSource(conns, &fakeProvider{}, "")

	busy, err := src.BusyIntervals(context.Background(), 7, time.Now(), time.Now().Add(time.Hour))

	require.NoError(t, err)
	assert.Empty(t, busy)
}

func TestSource_RecordsSuccess(t *testing.T) {
	conns := &fakeConnections{conn: &domain.CalendarConnection{ID: 3, Provider: domain.CalendarGoogle, AccessToken: "at"}}
	interval := domain.BusyInterval{Start: time.Now(), End: time.Now().Add(time.Hour)}
	src := newTestSource(conns, &fakeProvider{busy: []domain.BusyInterval{interval}}, "")

	busy, err := src.BusyIntervals(context.Background(), 7, time.Now(), time.Now().Add(24*time.Hour))

	require.NoError(t, err)
	assert.Len(t, busy, 1)
	assert.True(t, conns.synced)
	assert.Nil(t, conns.syncErr)
	assert.Empty(t, conns.newAccess)
}

func TestSource_ProviderFailure(t *testing.T) {
	conns := &fakeConnections{conn: &domain.CalendarConnection{ID: 3, Provider: domain.CalendarGoogle, AccessToken: "at"}}
	src := newTestSource(conns, &fakeProvider{err: errors.New("token revoked")}, "")

	_, err := src.BusyIntervals(context.Background(), 7, time.Now(), time.Now().Add(time.Hour))

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	require.NotNil(t, conns.syncErr)
	assert.Contains(t, *conns.syncErr, "token revoked")
}

func TestSource_UnsupportedProvider(t *testing.T) {
	conns := &fakeConnections{conn: &domain.CalendarConnection{ID: 3, Provider: domain.CalendarMicrosoft}}
	src := newTestSource(conns, &fakeProvider{}, "")

	_, err := src.BusyIntervals(context.Background(), 7, time.Now(), time.Now().Add(time.Hour))

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestSource_PersistsRefreshedToken(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	expired := time.Now().Add(-time.Hour)
	conns := &fakeConnections{conn: &domain.CalendarConnection{
		ID:             3,
		Provider:       domain.CalendarGoogle,
		AccessToken:    "stale",
		RefreshToken:   "rt",
		TokenExpiresAt: &expired,
	}}
	src := newTestSource(conns, &fakeProvider{}, tokenServer.URL)

	_, err := src.BusyIntervals(context.Background(), 7, time.Now(), time.Now().Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, "fresh", conns.newAccess)
}
