package run_reminders

import (
	"net/http"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
	runReminderPass "github.com/m04kA/HTM-BookingService/internal/usecase/run_reminder_pass"
)

// SummaryResponse HTTP response model
type SummaryResponse struct {
	Reminders24hSent int      `json:"reminders_24h_sent"`
	Reminders1hSent  int      `json:"reminders_1h_sent"`
	Errors           []string `json:"errors"`
}

type Handler struct {
	useCase RunReminderPassUseCase
	logger  Logger
}

func NewHandler(useCase RunReminderPassUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/internal/reminders/run
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	summary, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/reminders/run - Reminder pass failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/reminders/run - Pass finished: 24h=%d, 1h=%d, errors=%d",
		summary.Reminders24hSent, summary.Reminders1hSent, len(summary.Errors))
	handlers.RespondJSON(w, http.StatusOK, FromSummary(summary))
}

// FromSummary конвертирует итог прохода в HTTP response
func FromSummary(s *runReminderPass.Summary) *SummaryResponse {
	errs := s.Errors
	if errs == nil {
		errs = []string{}
	}
	return &SummaryResponse{
		Reminders24hSent: s.Reminders24hSent,
		Reminders1hSent:  s.Reminders1hSent,
		Errors:           errs,
	}
}
