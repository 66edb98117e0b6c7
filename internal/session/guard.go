package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/suxessedu/suxess-web/internal/api"
)

// Guard admits only requests carrying a valid admin session. It never calls
// the upstream API; expiry detected upstream is handled by the 401 hook.
func Guard(store Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := store.Get(r)
			if err != nil {
				if !errors.Is(err, ErrNoSession) {
					logger.WarnContext(r.Context(), "discarding unreadable session", "path", r.URL.Path, "error", err)
				}
				Logout(w, r, store)
				return
			}

			if !rec.IsAdmin() {
				logger.WarnContext(r.Context(), "non-admin session rejected", "path", r.URL.Path, "role", rec.Role)
				Logout(w, r, store)
				return
			}

			ctx := WithRecord(r.Context(), rec)
			ctx = api.WithCredentials(ctx, rec.Cookies())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logout clears the session record and sends the browser to the login page.
func Logout(w http.ResponseWriter, r *http.Request, store Store) {
	store.Clear(w)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
