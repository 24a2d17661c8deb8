package run_reminders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	runReminderPass "github.com/m04kA/HTM-BookingService/internal/usecase/run_reminder_pass"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	summary *runReminderPass.Summary
	err     error
}

func (f *fakeUseCase) Execute(ctx context.Context) (*runReminderPass.Summary, error) {
	return f.summary, f.err
}

func TestHandler_ReturnsSummary(t *testing.T) {
	uc := &fakeUseCase{summary: &runReminderPass.Summary{Reminders24hSent: 3, Reminders1hSent: 1}}
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodPost, "/internal/reminders/run", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reminders_24h_sent":3,"reminders_1h_sent":1,"errors":[]}`, rec.Body.String())
}

func TestHandler_PassFailed(t *testing.T) {
	uc := &fakeUseCase{err: errors.New("db down")}
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodPost, "/internal/reminders/run", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
