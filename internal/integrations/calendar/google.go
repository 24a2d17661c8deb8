package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

const googlePrimaryCalendar = "primary"

// GoogleOAuthConfig OAuth конфигурация Google для чтения free/busy
func GoogleOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarReadonlyScope},
	}
}

// GoogleProvider занятость через Google Calendar Freebusy API
type GoogleProvider struct {
	endpoint string // пустая строка - публичный API Google
}

// NewGoogleProvider создает провайдера Google Calendar
func NewGoogleProvider(endpoint string) *GoogleProvider {
	return &GoogleProvider{endpoint: endpoint}
}

// BusyIntervals запрашивает занятость основного календаря подключения
func (p *GoogleProvider) BusyIntervals(ctx context.Context, client *http.Client, conn *domain.CalendarConnection, from, to time.Time) ([]domain.BusyInterval, error) {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: create service: %w", err)
	}

	resp, err := svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: to.UTC().Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: googlePrimaryCalendar}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google: freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[googlePrimaryCalendar]
	if !ok {
		return nil, fmt.Errorf("%w: google: no primary calendar in response", ErrInvalidResponse)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("%w: google: %s", ErrInvalidResponse, cal.Errors[0].Reason)
	}

	busy := make([]domain.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: google: start %q: %v", ErrInvalidResponse, period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("%w: google: end %q: %v", ErrInvalidResponse, period.End, err)
		}
		busy = append(busy, domain.BusyInterval{Start: start, End: end})
	}

	return busy, nil
}
