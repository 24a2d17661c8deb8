package run_reminder_pass

import "time"

// Config параметры прохода
type Config struct {
	LockTTL time.Duration // время жизни блокировки (booking, threshold)
}

// Summary итог прохода
type Summary struct {
	Reminders24hSent int
	Reminders1hSent  int
	Errors           []string
}
