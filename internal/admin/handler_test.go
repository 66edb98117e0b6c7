package admin_test

import (
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

	"github.com/suxessedu/suxess-web/internal/admin"
	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/session"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Path   string
	Body   map[string]any
}

type fixture struct {
	router *chi.Mux
	cookie *http.Cookie
	calls  []call
	status int
	reply  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	f := &fixture{status: http.StatusOK}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{Method: r.Method, Path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&c.Body)
		f.calls = append(f.calls, c)

		if r.Method == http.MethodGet && r.URL.Path == "/admin/list-admins" {
			io.WriteString(w, `[{"id":1,"name":"Ada Admin","email":"ada@suxess.com"},{"id":2,"name":"Bola Bello","email":"bola@suxess.com"}]`)
			return
		}
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

	handler := admin.NewHandler(
		admin.NewService(client, events.NewBus(), metrics.NewMock(), logger),
		web.NewResponder(renderer, sessions, logger),
		logger,
	)
	f.router = chi.NewRouter()
	f.router.Group(func(r chi.Router) {
		r.Use(session.Guard(sessions, logger))
		handler.RegisterRoutes(r)
	})

	w := httptest.NewRecorder()
	require.NoError(t, sessions.Set(w, &session.Record{UserID: api.ParseID("1"), FullName: "Ada Admin", Role: session.RoleAdmin}))
	f.cookie = w.Result().Cookies()[0]
	return f
}

func (f *fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(f.cookie)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) mutations() []call {
	var out []call
	for _, c := range f.calls {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

func TestAdminList_HidesRemoveForCurrentAdmin(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/admin-management", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Bola Bello")
	assert.Contains(t, body, "/admin-management/2/delete")
	assert.NotContains(t, body, "/admin-management/1/delete")
	assert.NotContains(t, body, "Create Admin")
}

func TestAdminCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.reply = `{"message":"created"}`

		w := f.do(http.MethodPost, "/admin-management", url.Values{
			"fullName": {"Chi Okafor"},
			"email":    {"chi@suxess.com"},
			"password": {"secret1"},
		})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin-management", w.Header().Get("Location"))
		require.Len(t, f.mutations(), 1)
		got := f.mutations()[0]
		assert.Equal(t, "/admin/create-new-admin", got.Path)
		assert.Equal(t, "Chi Okafor", got.Body["fullName"])
		assert.Equal(t, "chi@suxess.com", got.Body["email"])
		assert.Equal(t, "secret1", got.Body["password"])
	})

	t.Run("ShortPassword_NotSent", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(http.MethodPost, "/admin-management", url.Values{
			"fullName": {"Chi Okafor"},
			"email":    {"chi@suxess.com"},
			"password": {"12345"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Password must be at least 6 characters.")
		assert.Contains(t, w.Body.String(), `value="chi@suxess.com"`)
		assert.Empty(t, f.mutations())
	})

	t.Run("ServerMessageShownInForm", func(t *testing.T) {
		f := newFixture(t)
		f.status = http.StatusConflict
		f.reply = `{"message":"Email already registered"}`

		w := f.do(http.MethodPost, "/admin-management", url.Values{
			"fullName": {"Chi Okafor"},
			"email":    {"ada@suxess.com"},
			"password": {"secret1"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Email already registered")
		assert.Contains(t, w.Body.String(), "Create Admin")
	})
}

func TestAdminDelete(t *testing.T) {
	t.Run("Other", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(http.MethodPost, "/admin-management/2/delete", url.Values{})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		require.Len(t, f.mutations(), 1)
		assert.Equal(t, http.MethodDelete, f.mutations()[0].Method)
		assert.Equal(t, "/admin/delete-admin/2", f.mutations()[0].Path)
	})

	t.Run("Self_RefusedWithoutUpstreamCall", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(http.MethodPost, "/admin-management/1/delete", url.Values{})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin-management", w.Header().Get("Location"))
		assert.Empty(t, f.mutations())
	})
}
