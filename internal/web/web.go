package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/session"
)

// HandlerFunc is a page handler. Returned errors go through Handle.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// View is the data every page template receives.
type View struct {
	Title  string
	Active string
	User   *session.Record
	Flash  *Flash
	Data   any
}

// Responder renders pages and turns handler errors into responses.
type Responder struct {
	renderer *Renderer
	store    session.Store
	logger   *slog.Logger
}

func NewResponder(renderer *Renderer, store session.Store, logger *slog.Logger) *Responder {
	return &Responder{renderer: renderer, store: store, logger: logger}
}

// Handle adapts h to net/http. An upstream 401 from any call, on any page,
// ends the session and sends the browser to the login page.
func (rs *Responder) Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		if errors.Is(err, api.ErrUnauthorized) {
			rs.logger.InfoContext(r.Context(), "upstream session expired", "path", r.URL.Path)
			session.Logout(w, r, rs.store)
			return
		}

		status, message := http.StatusInternalServerError, "Something went wrong."
		if errors.Is(err, api.ErrUnreachable) {
			status, message = http.StatusBadGateway, api.UnreachableMessage
		}
		rs.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)

		view := View{Title: "Error", Flash: &Flash{Kind: FlashError, Message: message}}
		if rec, ok := session.FromContext(r.Context()); ok {
			view.User = rec
		}
		if renderErr := rs.renderer.Execute(w, status, "error", view); renderErr != nil {
			http.Error(w, message, status)
		}
	}
}

// Render writes page with any pending flash banner.
func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, status int, page string, view View) error {
	if rec, ok := session.FromContext(r.Context()); ok {
		view.User = rec
	}
	if flash := popFlash(w, r); flash != nil && view.Flash == nil {
		view.Flash = flash
	}
	return rs.renderer.Execute(w, status, page, view)
}

// Redirect finishes a form post: it queues a banner and sends the browser
// back with 303 so the target page re-fetches.
func (rs *Responder) Redirect(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// Inline separates errors a page can show in place from those that must
// propagate. Upstream 401s propagate so Handle can end the session.
func Inline(err error, fallback string) (string, error) {
	if err == nil {
		return "", nil
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return "", err
	}
	return api.Message(err, fallback), nil
}
