package profileservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, nopLogger{})
}

func TestClient_GetTherapist(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/therapists/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"user_id":100,"display_name":"Dr. Calm","email":"calm@example.com","is_active":true}`))
	})

	profile, err := client.GetTherapist(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(100), profile.UserID)
	assert.Equal(t, "calm@example.com", profile.Email)
}

func TestClient_GetTherapist_Inactive(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"user_id":100,"is_active":false}`))
	})

	_, err := client.GetTherapist(context.Background(), 7)

	assert.ErrorIs(t, err, ErrTherapistNotFound)
}

func TestClient_GetTherapist_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetTherapist(context.Background(), 7)

	assert.ErrorIs(t, err, ErrTherapistNotFound)
}

func TestClient_GetTherapistWithGracefulDegradation(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetTherapistWithGracefulDegradation(context.Background(), 7)

	assert.ErrorIs(t, err, ErrServiceDegraded)
}
