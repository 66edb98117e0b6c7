package broadcast_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/broadcast"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/session"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router *chi.Mux
	cookie *http.Cookie
	sent   []map[string]string
	events []events.Event
	status int
	reply  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	f := &fixture{status: http.StatusOK}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications/broadcast", r.URL.Path)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.sent = append(f.sent, body)
		w.WriteHeader(f.status)
		io.WriteString(w, f.reply)
	}))
	t.Cleanup(server.Close)

	client, err := api.New(api.Options{BaseURL: server.URL, Logger: logger})
	require.NoError(t, err)
	sessions, err := session.NewCookieStore(session.CookieOptions{Name: "admin_session", Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	bus := events.NewBus()
	bus.Subscribe(func(_ context.Context, ev events.Event) { f.events = append(f.events, ev) }, events.BroadcastSent)

	f.router = chi.NewRouter()
	f.router.Group(func(r chi.Router) {
		r.Use(session.Guard(sessions, logger))
		broadcast.NewHandler(broadcast.NewService(client, bus, metrics.NewMock(), logger), web.NewResponder(renderer, sessions, logger), logger).RegisterRoutes(r)
	})

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Set(rec, &session.Record{UserID: api.ParseID("1"), Email: "ada@suxess.com", Role: session.RoleAdmin}))
	f.cookie = rec.Result().Cookies()[0]
	return f
}

func (f *fixture) post(form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/broadcasts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(f.cookie)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestBroadcast(t *testing.T) {
	t.Run("ComposeDefaultsToAllUsers", func(t *testing.T) {
		f := newFixture(t)
		req := httptest.NewRequest(http.MethodGet, "/broadcasts", nil)
		req.AddCookie(f.cookie)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `<option value="all" selected>All Users</option>`)
	})

	t.Run("Success_RedirectsWithServerMessage", func(t *testing.T) {
		f := newFixture(t)
		f.reply = `{"message":"Sent to 42 users"}`

		w := f.post(url.Values{"title": {"Holiday"}, "message": {"No lessons on Monday"}, "targetRole": {"parent"}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/broadcasts", w.Header().Get("Location"))
		require.Len(t, f.sent, 1)
		assert.Equal(t, map[string]string{"title": "Holiday", "message": "No lessons on Monday", "targetRole": "parent"}, f.sent[0])
		require.Len(t, f.events, 1)
		assert.Equal(t, "ada@suxess.com", f.events[0].ActorEmail)
	})

	t.Run("InvalidAudience_NotSent", func(t *testing.T) {
		f := newFixture(t)

		w := f.post(url.Values{"title": {"Holiday"}, "message": {"No lessons"}, "targetRole": {"admin"}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Please fill in every field.")
		assert.Contains(t, w.Body.String(), `value="Holiday"`)
		assert.Empty(t, f.sent)
	})

	t.Run("Failure_KeepsForm", func(t *testing.T) {
		f := newFixture(t)
		f.status = http.StatusInternalServerError

		w := f.post(url.Values{"title": {"Holiday"}, "message": {"No lessons"}, "targetRole": {"teacher"}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), broadcast.FailedMessage)
		assert.Contains(t, w.Body.String(), "No lessons</textarea>")
		assert.Empty(t, f.events)
	})
}
