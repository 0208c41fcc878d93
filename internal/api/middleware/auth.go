package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/campusrec/court-booking-service/internal/api/handlers"
)

// UserIDHeader заголовок с ID аутентифицированного пользователя.
// Заголовок проставляется API-шлюзом после проверки токена
const UserIDHeader = "X-User-ID"

const msgUnauthorized = "требуется аутентификация"

type contextKey string

const userIDKey contextKey = "userID"

// Auth проверяет наличие корректного X-User-ID и кладет его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext возвращает ID пользователя из контекста запроса
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
