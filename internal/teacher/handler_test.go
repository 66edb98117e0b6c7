package teacher_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/session"
	"github.com/suxessedu/suxess-web/internal/teacher"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	teachers  []teacher.Teacher
	listErr   error
	actionErr error
	verified  []string
	toggled   []string
}

func (f *fakeService) List(ctx context.Context) ([]teacher.Teacher, error) {
	return f.teachers, f.listErr
}

func (f *fakeService) Verify(ctx context.Context, id api.ID) error {
	f.verified = append(f.verified, id.String())
	return f.actionErr
}

func (f *fakeService) ToggleSuspend(ctx context.Context, id api.ID) error {
	f.toggled = append(f.toggled, id.String())
	return f.actionErr
}

func roster() []teacher.Teacher {
	return []teacher.Teacher{
		{ID: api.ParseID("4"), Name: "Tunde Ade", Email: "tunde@x.com", Subjects: "Maths", VerificationStatus: "Pending", IsProfileComplete: true},
		{ID: api.ParseID("5"), Name: "Kemi Obi", Email: "kemi@x.com", VerificationStatus: "Verified", IsSuspended: true, AssignedCount: 3, CompletedCount: 2},
	}
}

func serve(t *testing.T, svc teacher.Service, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sessions, err := session.NewCookieStore(session.CookieOptions{Name: "admin_session", Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(session.Guard(sessions, logger))
		teacher.NewHandler(svc, web.NewResponder(renderer, sessions, logger), logger).RegisterRoutes(r)
	})

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Set(rec, &session.Record{UserID: api.ParseID("1"), Role: session.RoleAdmin}))

	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(rec.Result().Cookies()[0])
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func flashOf(t *testing.T, w *httptest.ResponseRecorder) web.Flash {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_flash" {
			data, err := base64.RawURLEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			var f web.Flash
			require.NoError(t, json.Unmarshal(data, &f))
			return f
		}
	}
	t.Fatal("no flash cookie set")
	return web.Flash{}
}

func TestTeacherList(t *testing.T) {
	t.Run("RowsAndActions", func(t *testing.T) {
		w := serve(t, &fakeService{teachers: roster()}, http.MethodGet, "/teachers")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Tunde Ade")
		assert.Contains(t, body, "/teachers/4/verify")
		assert.NotContains(t, body, "/teachers/5/verify")
		assert.Contains(t, body, "Reinstate")
		assert.Contains(t, body, "100%")
		assert.Contains(t, body, "50%")
	})

	t.Run("ViewOpensPanel", func(t *testing.T) {
		w := serve(t, &fakeService{teachers: roster()}, http.MethodGet, "/teachers?view=5")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Kemi Obi&#39;s Details")
	})

	t.Run("ViewMissing_NotFoundBanner", func(t *testing.T) {
		w := serve(t, &fakeService{teachers: roster()}, http.MethodGet, "/teachers?view=99")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Teacher not found.")
	})

	t.Run("EmptyList", func(t *testing.T) {
		w := serve(t, &fakeService{}, http.MethodGet, "/teachers")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No teachers found.")
	})

	t.Run("FetchFailure_Banner", func(t *testing.T) {
		w := serve(t, &fakeService{listErr: &api.Error{Status: http.StatusInternalServerError}}, http.MethodGet, "/teachers")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to load teachers.")
	})
}

func TestTeacherActions(t *testing.T) {
	t.Run("Verify", func(t *testing.T) {
		svc := &fakeService{}
		w := serve(t, svc, http.MethodPost, "/teachers/4/verify")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/teachers", w.Header().Get("Location"))
		assert.Equal(t, []string{"4"}, svc.verified)
		assert.Equal(t, web.Flash{Kind: web.FlashSuccess, Message: "Teacher verified."}, flashOf(t, w))
	})

	t.Run("ToggleFailure_ServerMessage", func(t *testing.T) {
		svc := &fakeService{actionErr: &api.Error{Status: http.StatusBadRequest, Message: "Teacher has active lessons"}}
		w := serve(t, svc, http.MethodPost, "/teachers/5/toggle-suspend")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"5"}, svc.toggled)
		assert.Equal(t, web.Flash{Kind: web.FlashError, Message: "Teacher has active lessons"}, flashOf(t, w))
	})

	t.Run("VerifyFailure_Fallback", func(t *testing.T) {
		svc := &fakeService{actionErr: &api.Error{Status: http.StatusInternalServerError}}
		w := serve(t, svc, http.MethodPost, "/teachers/4/verify")

		assert.Equal(t, web.Flash{Kind: web.FlashError, Message: "Failed to verify teacher."}, flashOf(t, w))
	})

	t.Run("Unauthorized_LogsOut", func(t *testing.T) {
		svc := &fakeService{actionErr: &api.Error{Status: http.StatusUnauthorized}}
		w := serve(t, svc, http.MethodPost, "/teachers/4/verify")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}

func TestTeacherModel(t *testing.T) {
	ts := roster()
	assert.False(t, ts[0].Matchable(), "pending teachers are not matchable")
	assert.False(t, ts[1].Matchable(), "suspended teachers are not matchable")
	assert.True(t, teacher.Teacher{VerificationStatus: teacher.StatusVerified}.Matchable())

	p := teacher.Panel(ts[1])
	require.Len(t, p.Badges, 2)
	assert.Equal(t, "danger", p.Badges[1].Tone)
	assert.Equal(t, "/teachers", p.CloseURL)
}
