package email

// Message письмо для отправки
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string // текстовая версия (опционально)
}

// SendResult результат успешной отправки
type SendResult struct {
	ProviderMessageID string
}

// From адрес отправителя
type From struct {
	Email string
	Name  string
}
