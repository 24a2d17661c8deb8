package get_available_dates

import "fmt"

const (
	minYear = 2000
	maxYear = 2100
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}

	if req.Year < minYear || req.Year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minYear, maxYear)
	}

	return nil
}
