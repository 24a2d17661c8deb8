package email

import (
	"context"

	"github.com/google/uuid"
)

// StubSender логирует письма без отправки (локальная разработка)
type StubSender struct {
	log Logger
}

// NewStubSender создает заглушку отправителя
func NewStubSender(log Logger) *StubSender {
	return &StubSender{log: log}
}

// Send логирует письмо
func (s *StubSender) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}

	id := "stub-" + uuid.NewString()
	s.log.Info("StubSender.Send: would send, to=%s, subject=%q, message_id=%s", msg.To, msg.Subject, id)
	return &SendResult{ProviderMessageID: id}, nil
}

var _ Sender = (*StubSender)(nil)

func validate(msg Message) error {
	if msg.To == "" {
		return ErrInvalidMessage
	}
	if msg.Subject == "" {
		return ErrInvalidMessage
	}
	return nil
}
