package profileservice

// TherapistProfile модель профиля терапевта из ProfileService
type TherapistProfile struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"` // владелец профиля, сверяется с X-User-ID
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
