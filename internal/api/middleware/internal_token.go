package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/HTM-BookingService/internal/api/handlers"
)

// HeaderInternalToken заголовок для внутренних маршрутов (cron, оркестратор)
const HeaderInternalToken = "X-Internal-Token"

const msgInvalidInternalToken = "некорректный внутренний токен"

// InternalToken пропускает запрос только с совпадающим X-Internal-Token
// Пустой expected закрывает маршрут полностью
func InternalToken(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderInternalToken)
			if expected == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				handlers.RespondForbidden(w, msgInvalidInternalToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
