package get_available_slots

import (
	"time"

	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TherapistID int64     // ID профиля терапевта
	Date        time.Time // Дата в часовом поясе терапевта (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date        time.Time // Дата, на которую запрашивались слоты
	TherapistID int64
	Timezone    string // IANA пояс, в котором заданы StartTime/EndTime
	Slots       []Slot // Свободные слоты по возрастанию
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	EndTime   types.TimeString
}
