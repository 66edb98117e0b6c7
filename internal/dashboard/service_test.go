package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeGetter serves canned bodies by path and records every call.
type routeGetter struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	delays map[string]time.Duration
	calls  []string
}

func (g *routeGetter) Get(ctx context.Context, path string, query url.Values, out any) error {
	g.mu.Lock()
	g.calls = append(g.calls, path)
	body, err, delay := g.bodies[path], g.errs[path], g.delays[path]
	g.mu.Unlock()

	time.Sleep(delay)

	if err != nil {
		return err
	}
	if body == "" {
		return errors.New("unexpected path " + path)
	}
	return json.Unmarshal([]byte(body), out)
}

func dashboardBodies() map[string]string {
	return map[string]string{
		"/admin/stats":           `{"parents":12,"teachers":8,"pending":3,"matched":5}`,
		"/admin/activity-logs":   `[{"id":1,"userName":"Ada","action":"MATCH"}]`,
		"/admin/recent-requests": `[{"id":5,"parentName":"Grace","status":"Pending"}]`,
		"/admin/chart-data":      `{"labels":["Jan","Feb","Mar"],"data":[2,8,4]}`,
	}
}

func TestOverview_LoadsAllSources(t *testing.T) {
	g := &routeGetter{bodies: dashboardBodies()}

	o, err := NewService(g).Overview(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/admin/stats", "/admin/activity-logs", "/admin/recent-requests", "/admin/chart-data"}, g.calls)
	assert.Equal(t, Stats{Parents: 12, Teachers: 8, Pending: 3, Matched: 5}, o.Stats)
	require.Len(t, o.Activity, 1)
	require.Len(t, o.RecentRequests, 1)
	assert.Equal(t, "Grace", o.RecentRequests[0].ParentName)
	assert.Equal(t, []Bar{
		{Label: "Jan", Value: 2, Percent: 25},
		{Label: "Feb", Value: 8, Percent: 100},
		{Label: "Mar", Value: 4, Percent: 50},
	}, o.Chart.Bars())
}

func TestOverview_AnyFailureFailsDashboard(t *testing.T) {
	g := &routeGetter{
		bodies: dashboardBodies(),
		errs:   map[string]error{"/admin/chart-data": &api.Error{Status: http.StatusInternalServerError}},
	}

	o, err := NewService(g).Overview(context.Background())

	assert.Nil(t, o)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusOf(err))
}

func TestOverview_UnauthorizedPropagates(t *testing.T) {
	g := &routeGetter{
		bodies: dashboardBodies(),
		errs:   map[string]error{"/admin/stats": &api.Error{Status: http.StatusUnauthorized}},
	}

	_, err := NewService(g).Overview(context.Background())

	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestOverview_UnauthorizedWinsOverEarlierFailure(t *testing.T) {
	g := &routeGetter{
		bodies: dashboardBodies(),
		errs: map[string]error{
			"/admin/stats":      &api.Error{Status: http.StatusInternalServerError},
			"/admin/chart-data": &api.Error{Status: http.StatusUnauthorized},
		},
		delays: map[string]time.Duration{"/admin/chart-data": 20 * time.Millisecond},
	}

	_, err := NewService(g).Overview(context.Background())

	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestChartBars_MismatchedLengths(t *testing.T) {
	bars := ChartData{Labels: []string{"Jan", "Feb"}, Data: []int{0, 0, 7}}.Bars()

	assert.Equal(t, []Bar{{Label: "Jan"}, {Label: "Feb"}}, bars)
}

func TestAnalytics(t *testing.T) {
	g := &routeGetter{bodies: map[string]string{
		"/admin/analytics": `{"topSubjects":[{"subject":"Maths","count":10},{"subject":"English","count":5}],"topTeachers":[{"name":"Tunde","count":3}]}`,
	}}

	a, err := NewService(g).Analytics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Bar{{Label: "Maths", Value: 10, Percent: 100}, {Label: "English", Value: 5, Percent: 50}}, a.SubjectBars())
	assert.Equal(t, []Bar{{Label: "Tunde", Value: 3, Percent: 100}}, a.TeacherBars())
}
