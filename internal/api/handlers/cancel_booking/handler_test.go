package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HTM-BookingService/internal/api/middleware"
	"github.com/m04kA/HTM-BookingService/internal/service/bookings"
	"github.com/m04kA/HTM-BookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.CancelBookingRequest
	err error
}

func (f *fakeService) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	by := "visitor"
	return &models.BookingResponse{ID: bookingID, Status: "cancelled", CancelledBy: &by}, nil
}

func serve(svc *fakeService, body, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/bookings/{bookingId}/cancel",
		middleware.OptionalAuth(http.HandlerFunc(NewHandler(svc, nopLogger{}).Handle))).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/bookings/42/cancel", strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_VisitorToken(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"visitorToken":"tok","cancellationReason":"sick"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.VisitorToken)
	assert.Equal(t, "tok", *svc.got.VisitorToken)
	assert.Nil(t, svc.got.UserID)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandler_Therapist(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{}`, "100")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.UserID)
	assert.Equal(t, int64(100), *svc.got.UserID)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"wrong token", bookings.ErrAccessDenied, http.StatusForbidden},
		{"terminal", bookings.ErrCannotCancel, http.StatusBadRequest},
		{"concurrent change", bookings.ErrStaleState, http.StatusConflict},
		{"reason too long", bookings.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, `{"visitorToken":"tok"}`, "")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
