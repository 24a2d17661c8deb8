package email

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

// Sender отправляет письма. Реализации взаимозаменяемы (SendGrid, SES, stub).
type Sender interface {
	Send(ctx context.Context, msg Message) (*SendResult, error)
}

// SESAPI часть клиента sesv2, используемая отправителем
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
