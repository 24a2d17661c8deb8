package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESSender отправляет письма через AWS SES v2
type SESSender struct {
	client SESAPI
	from   From
	log    Logger
}

// NewSESSender создает отправителя SES
func NewSESSender(client SESAPI, from From, log Logger) *SESSender {
	return &SESSender{
		client: client,
		from:   from,
		log:    log,
	}
}

// Send отправляет письмо
func (s *SESSender) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}

	fromAddress := s.from.Email
	if s.from.Name != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.from.Name, s.from.Email)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(msg.HTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if msg.Text != "" {
		input.Content.Simple.Body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.log.Error("SESSender.Send: request failed, to=%s: %v", msg.To, err)
		return nil, fmt.Errorf("%w: ses: %v", ErrSendFailed, err)
	}

	result := &SendResult{ProviderMessageID: aws.ToString(output.MessageId)}
	s.log.Info("SESSender.Send: sent, to=%s, message_id=%s", msg.To, result.ProviderMessageID)
	return result, nil
}

var _ Sender = (*SESSender)(nil)
