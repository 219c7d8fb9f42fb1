package middleware

import (
	"log/slog"
	"net/http"

	"github.com/blackhacks/scrim-system/presence"
)

// TrackPresence обновляет TTL-метку "онлайн" для каждого
// аутентифицированного запроса. Ставится после Authenticate.
func TrackPresence(tracker presence.Tracker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := GetUserIDFromContext(r.Context()); err == nil {
				if err := tracker.Touch(r.Context(), userID); err != nil {
					// Presence вспомогательный, запрос не блокируем.
					logger.Warn("failed to refresh presence", slog.String("error", err.Error()))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
