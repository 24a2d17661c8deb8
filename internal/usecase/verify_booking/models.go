package verify_booking

// Request модель запроса на подтверждение email
type Request struct {
	Token string
}

// Response результат подтверждения
type Response struct {
	Success         bool
	AlreadyVerified bool
	BookingID       int64
	Status          string
}
