package session_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, secret string) *session.CookieStore {
	t.Helper()
	store, err := session.NewCookieStore(session.CookieOptions{
		Name:   "admin_session",
		Secret: secret,
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	return store
}

// issue returns the cookie a store would write for rec.
func issue(t *testing.T, store session.Store, rec *session.Record) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, store.Set(w, rec))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func assertRedirectedToLogin(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie should be cleared")
}

func TestGuard(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := newStore(t, "test-secret")

	var reached bool
	var seen *session.Record
	protected := session.Guard(store, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen, _ = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(cookie *http.Cookie) *httptest.ResponseRecorder {
		reached, seen = false, nil
		req := httptest.NewRequest(http.MethodGet, "/teachers", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		return w
	}

	t.Run("NoSession_RedirectsToLogin", func(t *testing.T) {
		w := serve(nil)
		assertRedirectedToLogin(t, w)
		assert.False(t, reached)
	})

	t.Run("MalformedSession_RedirectsAndClears", func(t *testing.T) {
		w := serve(&http.Cookie{Name: "admin_session", Value: "{not-a-token"})
		assertRedirectedToLogin(t, w)
		assert.False(t, reached)
	})

	t.Run("ForeignSignature_RedirectsAndClears", func(t *testing.T) {
		forged := issue(t, newStore(t, "other-secret"), &session.Record{UserID: api.ParseID("1"), Role: "admin"})
		w := serve(forged)
		assertRedirectedToLogin(t, w)
		assert.False(t, reached)
	})

	t.Run("NonAdminRole_RedirectsToLogin", func(t *testing.T) {
		for _, role := range []string{"parent", "teacher", "", "Admin"} {
			cookie := issue(t, store, &session.Record{UserID: api.ParseID("5"), Role: role})
			w := serve(cookie)
			assertRedirectedToLogin(t, w)
			assert.False(t, reached, "role %q must not reach protected content", role)
		}
	})

	t.Run("Admin_ReachesHandlerWithRecord", func(t *testing.T) {
		cookie := issue(t, store, &session.Record{
			UserID:   api.ParseID("9"),
			FullName: "Ada Admin",
			Email:    "ada@suxess.com",
			Role:     session.RoleAdmin,
			Upstream: []session.Cookie{{Name: "connect.sid", Value: "s%3Aabc"}},
		})
		w := serve(cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, reached)
		require.NotNil(t, seen)
		assert.Equal(t, "9", seen.UserID.String())
		assert.Equal(t, "Ada Admin", seen.FullName)
		assert.NotEmpty(t, seen.SessionID)
		require.Len(t, seen.Upstream, 1)
		assert.Equal(t, "connect.sid", seen.Upstream[0].Name)
	})
}

func TestCookieStore_Expiry(t *testing.T) {
	store, err := session.NewCookieStore(session.CookieOptions{Secret: "s", TTL: time.Millisecond})
	require.NoError(t, err)

	cookie := issue(t, store, &session.Record{Role: session.RoleAdmin})
	time.Sleep(1100 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, err = store.Get(req)
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestNewCookieStore_RequiresSecret(t *testing.T) {
	_, err := session.NewCookieStore(session.CookieOptions{})
	assert.Error(t, err)
}

func TestUpstreamCookies(t *testing.T) {
	got := session.UpstreamCookies([]*http.Cookie{
		{Name: "connect.sid", Value: "abc"},
		{Name: "gone", Value: "x", MaxAge: -1},
		{Name: "empty", Value: ""},
	})
	assert.Equal(t, []session.Cookie{{Name: "connect.sid", Value: "abc"}}, got)
}
