package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

const (
	graphBaseURL       = "https://graph.microsoft.com/v1.0"
	graphDateTimeFmt   = "2006-01-02T15:04:05.9999999"
	graphViewInterval  = 15
	graphScopeCalendar = "https://graph.microsoft.com/Calendars.Read"
)

// Статусы Graph, означающие занятость
var graphBusyStatuses = map[string]bool{
	"busy":      true,
	"tentative": true,
	"oof":       true,
}

// MicrosoftOAuthConfig OAuth конфигурация Azure AD для чтения расписания
func MicrosoftOAuthConfig(clientID, clientSecret, tenant string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     microsoft.AzureADEndpoint(tenant),
		Scopes:       []string{graphScopeCalendar, "offline_access"},
	}
}

// MicrosoftProvider занятость через Microsoft Graph getSchedule
type MicrosoftProvider struct {
	baseURL string
}

// NewMicrosoftProvider создает провайдера Outlook (baseURL пустой - публичный Graph)
func NewMicrosoftProvider(baseURL string) *MicrosoftProvider {
	if baseURL == "" {
		baseURL = graphBaseURL
	}
	return &MicrosoftProvider{baseURL: baseURL}
}

// BusyIntervals запрашивает расписание владельца подключения
func (p *MicrosoftProvider) BusyIntervals(ctx context.Context, client *http.Client, conn *domain.CalendarConnection, from, to time.Time) ([]domain.BusyInterval, error) {
	payload, err := json.Marshal(graphScheduleRequest{
		Schedules:                []string{conn.AccountEmail},
		StartTime:                graphDateTime{DateTime: from.UTC().Format(graphDateTimeFmt), TimeZone: "UTC"},
		EndTime:                  graphDateTime{DateTime: to.UTC().Format(graphDateTimeFmt), TimeZone: "UTC"},
		AvailabilityViewInterval: graphViewInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("microsoft: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/me/calendar/getSchedule", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("microsoft: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("microsoft: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: microsoft: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var schedule graphScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("%w: microsoft: decode response: %v", ErrInvalidResponse, err)
	}

	busy := make([]domain.BusyInterval, 0)
	for _, info := range schedule.Value {
		if info.Error != nil {
			return nil, fmt.Errorf("%w: microsoft: %s: %s", ErrInvalidResponse, info.Error.ResponseCode, info.Error.Message)
		}
		for _, item := range info.ScheduleItems {
			if !graphBusyStatuses[item.Status] {
				continue
			}
			start, err := parseGraphDateTime(item.Start)
			if err != nil {
				return nil, err
			}
			end, err := parseGraphDateTime(item.End)
			if err != nil {
				return nil, err
			}
			busy = append(busy, domain.BusyInterval{Start: start, End: end})
		}
	}

	return busy, nil
}

func parseGraphDateTime(v graphDateTime) (time.Time, error) {
	loc := time.UTC
	if v.TimeZone != "" && v.TimeZone != "UTC" {
		l, err := time.LoadLocation(v.TimeZone)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: microsoft: timezone %q: %v", ErrInvalidResponse, v.TimeZone, err)
		}
		loc = l
	}

	t, err := time.ParseInLocation(graphDateTimeFmt, v.DateTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: microsoft: datetime %q: %v", ErrInvalidResponse, v.DateTime, err)
	}
	return t, nil
}
