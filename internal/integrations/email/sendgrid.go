package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridDefaultHost = "https://api.sendgrid.com"
	sendGridEndpoint    = "/v3/mail/send"
)

// SendGridSender отправляет письма через SendGrid v3 API
type SendGridSender struct {
	apiKey string
	host   string
	from   From
	log    Logger
}

// NewSendGridSender создает отправителя SendGrid (host пустой - публичный API)
func NewSendGridSender(apiKey, host string, from From, log Logger) *SendGridSender {
	if host == "" {
		host = sendGridDefaultHost
	}
	return &SendGridSender{
		apiKey: apiKey,
		host:   host,
		from:   from,
		log:    log,
	}
}

// Send отправляет письмо
func (s *SendGridSender) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}

	text := msg.Text
	if text == "" {
		text = msg.Subject
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Email),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		text,
		msg.HTML,
	)

	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		s.log.Error("SendGridSender.Send: request failed, to=%s: %v", msg.To, err)
		return nil, fmt.Errorf("%w: sendgrid: %v", ErrSendFailed, err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		s.log.Error("SendGridSender.Send: status=%d, to=%s, body=%s", response.StatusCode, msg.To, response.Body)
		return nil, fmt.Errorf("%w: sendgrid returned status %d", ErrSendFailed, response.StatusCode)
	}

	result := &SendResult{}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		result.ProviderMessageID = ids[0]
	}

	s.log.Info("SendGridSender.Send: sent, to=%s, message_id=%s", msg.To, result.ProviderMessageID)
	return result, nil
}

var _ Sender = (*SendGridSender)(nil)
