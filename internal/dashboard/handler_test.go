package dashboard

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/session"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveDashboard(t *testing.T, g *routeGetter, target string) *httptest.ResponseRecorder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sessions, err := session.NewCookieStore(session.CookieOptions{Name: "admin_session", Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(session.Guard(sessions, logger))
		NewHandler(NewService(g), web.NewResponder(renderer, sessions, logger), logger).RegisterRoutes(r)
	})

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Set(rec, &session.Record{UserID: api.ParseID("1"), FullName: "Ada Admin", Role: session.RoleAdmin}))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(rec.Result().Cookies()[0])
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDashboardPage(t *testing.T) {
	t.Run("RendersStats", func(t *testing.T) {
		w := serveDashboard(t, &routeGetter{bodies: dashboardBodies()}, "/")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Total Parents")
		assert.Contains(t, body, "Grace")
		assert.Contains(t, body, "height: 100%")
	})

	t.Run("FailureShowsFixedMessage", func(t *testing.T) {
		g := &routeGetter{
			bodies: dashboardBodies(),
			errs:   map[string]error{"/admin/recent-requests": &api.Error{Status: http.StatusBadRequest, Message: "internal detail"}},
		}

		w := serveDashboard(t, g, "/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), DashboardFailedMessage)
		assert.NotContains(t, w.Body.String(), "internal detail")
		assert.NotContains(t, w.Body.String(), "Total Parents")
	})

	t.Run("UnauthorizedLogsOut", func(t *testing.T) {
		g := &routeGetter{
			bodies: dashboardBodies(),
			errs:   map[string]error{"/admin/stats": &api.Error{Status: http.StatusUnauthorized}},
		}

		w := serveDashboard(t, g, "/")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}

func TestAnalyticsPage_Failure(t *testing.T) {
	g := &routeGetter{errs: map[string]error{"/admin/analytics": &api.Error{Status: http.StatusInternalServerError}}}

	w := serveDashboard(t, g, "/analytics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), AnalyticsFailedMessage)
}
