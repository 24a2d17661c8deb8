package get_available_slots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/HTM-BookingService/internal/usecase/get_available_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(h *Handler, therapistID, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/therapists/"+therapistID+"/available-slots"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"therapistId": therapistID})
	h.Handle(rec, req)
	return rec
}

func TestHandler_ReturnsSlots(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:        time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC),
		TherapistID: 7,
		Timezone:    "Europe/London",
		Slots: []getAvailableSlots.Slot{
			{StartTime: "09:00", EndTime: "10:00"},
			{StartTime: "10:00", EndTime: "11:00"},
		},
	}}

	rec := serve(NewHandler(uc, nopLogger{}), "7", "?date=2026-10-26")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"date": "2026-10-26",
		"therapistId": 7,
		"timezone": "Europe/London",
		"slots": [
			{"startTime": "09:00", "endTime": "10:00"},
			{"startTime": "10:00", "endTime": "11:00"}
		]
	}`, rec.Body.String())
	assert.Equal(t, int64(7), uc.got.TherapistID)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name        string
		therapistID string
		query       string
		err         error
		want        int
	}{
		{"bad therapist id", "abc", "?date=2026-10-26", nil, http.StatusBadRequest},
		{"missing date", "7", "", nil, http.StatusBadRequest},
		{"bad date", "7", "?date=26.10.2026", nil, http.StatusBadRequest},
		{"unknown therapist", "7", "?date=2026-10-26", getAvailableSlots.ErrTherapistNotFound, http.StatusNotFound},
		{"invalid input", "7", "?date=2026-10-26", getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{"internal", "7", "?date=2026-10-26", getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeUseCase{err: tt.err}, nopLogger{}), tt.therapistID, tt.query)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
