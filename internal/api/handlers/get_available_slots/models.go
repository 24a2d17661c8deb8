package get_available_slots

import (
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/HTM-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string          `json:"date"`
	TherapistID int64           `json:"therapistId"`
	Timezone    string          `json:"timezone"`
	Slots       []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		}
	}

	return &AvailableSlotsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		TherapistID: resp.TherapistID,
		Timezone:    resp.Timezone,
		Slots:       slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(therapistID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		TherapistID: therapistID,
		Date:        date,
	}, nil
}
