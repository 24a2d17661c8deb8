package calendar

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

func TestMicrosoftProvider_BusyIntervals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/calendar/getSchedule", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"schedules":["dr@example.com"]`)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[{"scheduleId":"dr@example.com","scheduleItems":[
			{"status":"busy","start":{"dateTime":"2026-10-19T09:00:00.0000000","timeZone":"UTC"},"end":{"dateTime":"2026-10-19T10:00:00.0000000","timeZone":"UTC"}},
			{"status":"free","start":{"dateTime":"2026-10-19T11:00:00.0000000","timeZone":"UTC"},"end":{"dateTime":"2026-10-19T12:00:00.0000000","timeZone":"UTC"}},
			{"status":"oof","start":{"dateTime":"2026-10-19T14:00:00","timeZone":"UTC"},"end":{"dateTime":"2026-10-19T15:30:00","timeZone":"UTC"}}
		]}]}`))
	}))
	defer srv.Close()

	provider := NewMicrosoftProvider(srv.URL)
	conn := &domain.CalendarConnection{AccountEmail: "dr@example.com"}
	from := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	busy, err := provider.BusyIntervals(context.Background(), srv.Client(), conn, from, from.Add(24*time.Hour))

	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.Equal(t, time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC), busy[0].Start)
	assert.Equal(t, time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC), busy[1].End)
}

func TestMicrosoftProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	provider := NewMicrosoftProvider(srv.URL)

	_, err := provider.BusyIntervals(context.Background(), srv.Client(), &domain.CalendarConnection{}, time.Now(), time.Now().Add(time.Hour))

	assert.ErrorIs(t, err, ErrInvalidResponse)
}
