package email

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testMessage = Message{
	To:      "jane@example.com",
	ToName:  "Jane",
	Subject: "Please confirm your booking",
	HTML:    "<p>Hello</p>",
}

func TestSendGridSender_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "jane@example.com")

		w.Header().Set("X-Message-Id", "sg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewSendGridSender("key", srv.URL, From{Email: "noreply@example.com", Name: "Bookings"}, nopLogger{})

	result, err := sender.Send(context.Background(), testMessage)

	require.NoError(t, err)
	assert.Equal(t, "sg-123", result.ProviderMessageID)
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	sender := NewSendGridSender("key", srv.URL, From{Email: "noreply@example.com"}, nopLogger{})

	_, err := sender.Send(context.Background(), testMessage)

	assert.ErrorIs(t, err, ErrSendFailed)
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, From{Email: "noreply@example.com", Name: "Bookings"}, nopLogger{})

	result, err := sender.Send(context.Background(), testMessage)

	require.NoError(t, err)
	assert.Equal(t, "ses-1", result.ProviderMessageID)
	assert.Equal(t, "Bookings <noreply@example.com>", aws.ToString(client.input.FromEmailAddress))
	assert.Equal(t, []string{"jane@example.com"}, client.input.Destination.ToAddresses)
	assert.Nil(t, client.input.Content.Simple.Body.Text)
}

func TestSESSender_Failure(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, From{Email: "noreply@example.com"}, nopLogger{})

	_, err := sender.Send(context.Background(), testMessage)

	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestStubSender_RejectsEmptyRecipient(t *testing.T) {
	sender := NewStubSender(nopLogger{})

	_, err := sender.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	result, err := sender.Send(context.Background(), testMessage)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ProviderMessageID)
}
