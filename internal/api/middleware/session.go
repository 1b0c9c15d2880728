package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/portal"
)

const msgSessionNotFound = "Sesión no encontrada o expirada"

// SessionRegistry источник сессий портала
type SessionRegistry interface {
	Get(id, userID string) (*portal.Session, error)
}

type sessionKey struct{}

// Session находит сессию по {sessionId} и кладет ее в контекст
// Должен стоять после Auth
func Session(registry SessionRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			s, err := registry.Get(mux.Vars(r)["sessionId"], userID)
			if err != nil {
				if errors.Is(err, portal.ErrSessionNotFound) {
					handlers.RespondNotFound(w, msgSessionNotFound)
					return
				}
				handlers.RespondInternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// WithSession кладет сессию в контекст
func WithSession(ctx context.Context, s *portal.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSession достает сессию из контекста
func GetSession(ctx context.Context) (*portal.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*portal.Session)
	return s, ok && s != nil
}
