package get_available_dates

import "time"

// Request модель запроса на получение дат со свободными слотами
type Request struct {
	TherapistID int64
	Year        int
	Month       int // 1..12
}

// Response модель ответа
type Response struct {
	TherapistID int64
	Year        int
	Month       int
	Timezone    string
	Dates       []time.Time // календарные даты терапевта по возрастанию (00:00 UTC)
}
