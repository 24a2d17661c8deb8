package email

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

const (
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderStub     = "stub"
)

// Config настройки отправителя
type Config struct {
	Provider       string
	From           From
	SendGridAPIKey string
	SendGridHost   string
	SESRegion      string
}

// New создает отправителя по имени провайдера
func New(ctx context.Context, cfg Config, log Logger) (Sender, error) {
	switch cfg.Provider {
	case ProviderSendGrid:
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridHost, cfg.From, log), nil
	case ProviderSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SESRegion))
		if err != nil {
			return nil, fmt.Errorf("email: load aws config: %w", err)
		}
		return NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.From, log), nil
	case ProviderStub, "":
		return NewStubSender(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
