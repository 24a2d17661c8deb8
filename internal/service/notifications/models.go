package notifications

// Config параметры ссылок в письмах
type Config struct {
	PublicBaseURL string // адрес фронтенда, к нему добавляются пути подтверждения и управления бронированием
}

// templateData данные для шаблонов писем
type templateData struct {
	VisitorName     string
	VisitorEmail    string
	TherapistName   string
	CounterpartName string
	Date            string
	StartTime       string
	EndTime         string
	Timezone        string
	Format          string
	Notes           string
	Reason          string
	CancelledBy     string
	Threshold       string
	Pending         bool
	VerifyURL       string
	ManageURL       string
}
