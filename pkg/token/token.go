package token

import (
	"strings"

	"github.com/google/uuid"
)

// New возвращает непрозрачный случайный токен (два UUIDv4 без дефисов, 244 бита случайности)
func New() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
