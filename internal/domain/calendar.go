package domain

import "time"

// CalendarProvider external calendar vendor
type CalendarProvider string

const (
	CalendarGoogle    CalendarProvider = "google"
	CalendarMicrosoft CalendarProvider = "microsoft"
)

// CalendarConnection synced external calendar of a therapist
type CalendarConnection struct {
	ID                 int64
	TherapistProfileID int64
	Provider           CalendarProvider
	AccountEmail       string
	AccessToken        string
	RefreshToken       string
	TokenExpiresAt     *time.Time
	IsActive           bool
	LastSyncAt         *time.Time
	SyncError          *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BusyInterval time range during which no new booking may be placed
type BusyInterval struct {
	Start time.Time
	End   time.Time
}
