package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
)

// UserIDHeader заголовок с идентификатором пользователя, проставляемый шлюзом
const UserIDHeader = "X-User-ID"

const msgMissingUserID = "Falta el identificador de usuario"

type userIDKey struct{}

// Auth требует заголовок X-User-ID и кладет его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID достает ID пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}
