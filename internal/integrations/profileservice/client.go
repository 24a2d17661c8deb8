package profileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с ProfileService (каталог терапевтов)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetTherapist получает профиль терапевта по ID.
// Неактивный профиль считается ненайденным.
func (c *Client) GetTherapist(ctx context.Context, profileID int64) (*TherapistProfile, error) {
	url := fmt.Sprintf("%s/internal/therapists/%d", c.baseURL, profileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid therapist ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrTherapistNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile TherapistProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !profile.IsActive {
		return nil, ErrTherapistNotFound
	}

	return &profile, nil
}

// GetTherapistWithGracefulDegradation получает профиль терапевта с graceful degradation.
// Используется там, где профиль нужен только для уведомлений: при недоступности
// ProfileService возвращает ErrServiceDegraded, и уведомление терапевту пропускается.
func (c *Client) GetTherapistWithGracefulDegradation(ctx context.Context, profileID int64) (*TherapistProfile, error) {
	profile, err := c.GetTherapist(ctx, profileID)
	if err != nil {
		if errors.Is(err, ErrTherapistNotFound) {
			c.log.Warn("Therapist profile not found for therapist_profile_id=%d", profileID)
			return nil, err
		}

		c.log.Error("ProfileService unavailable, applying graceful degradation for therapist_profile_id=%d: %v", profileID, err)
		return nil, fmt.Errorf("%w: therapist_profile_id=%d, error=%v", ErrServiceDegraded, profileID, err)
	}

	return profile, nil
}
