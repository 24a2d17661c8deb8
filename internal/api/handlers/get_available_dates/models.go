package get_available_dates

import (
	"strconv"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	getAvailableDates "github.com/m04kA/HTM-BookingService/internal/usecase/get_available_dates"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	TherapistID int64    `json:"therapistId"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	Timezone    string   `json:"timezone"`
	Dates       []string `json:"dates"` // "2026-10-26"
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(therapistID int64, yearStr, monthStr string) (*getAvailableDates.Request, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, err
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableDates.Request{
		TherapistID: therapistID,
		Year:        year,
		Month:       month,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableDates.Response) *AvailableDatesResponse {
	dates := make([]string, len(resp.Dates))
	for i, d := range resp.Dates {
		dates[i] = d.Format(domain.DateFormat)
	}

	return &AvailableDatesResponse{
		TherapistID: resp.TherapistID,
		Year:        resp.Year,
		Month:       resp.Month,
		Timezone:    resp.Timezone,
		Dates:       dates,
	}
}
