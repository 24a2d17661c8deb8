package domain

import "time"

// EmailVerification one-time token proving the visitor owns the email
type EmailVerification struct {
	Token        string
	BookingID    int64
	VisitorEmail string
	VerifiedAt   *time.Time
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// IsVerified returns true if the token was already consumed
func (v *EmailVerification) IsVerified() bool {
	return v.VerifiedAt != nil
}

// IsExpired returns true if now is past the expiry instant
func (v *EmailVerification) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
