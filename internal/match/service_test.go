package match

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	fakeSource
	suggestionCalls int
}

func (c *countingSource) Suggestions(ctx context.Context, requestID api.ID) ([]Suggestion, error) {
	c.suggestionCalls++
	return c.fakeSource.Suggestions(ctx, requestID)
}

func newTestService(src Source) (*Service, *MemoryStore, *[]events.Event) {
	store := NewMemoryStore(time.Minute)
	bus := events.NewBus()
	var published []events.Event
	bus.Subscribe(func(ctx context.Context, ev events.Event) {
		published = append(published, ev)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(src, store, bus, metrics.NewMock(), logger), store, &published
}

func TestService(t *testing.T) {
	ctx := session.WithRecord(context.Background(), &session.Record{SessionID: "sess-1", Email: "root@suxess.ng", Role: "admin"})
	requestID := api.ParseID("42")
	key := Key("sess-1", requestID)

	t.Run("PanelIsOpenedOnceThenReused", func(t *testing.T) {
		src := &countingSource{fakeSource: fakeSource{suggestions: []Suggestion{{ID: api.ParseID("7"), IsShortlisted: true}}}}
		svc, _, _ := newTestService(src)

		w, err := svc.Panel(ctx, key, requestID)
		require.NoError(t, err)
		assert.Equal(t, ModeRecommendations, w.Mode)

		_, err = svc.Panel(ctx, key, requestID)
		require.NoError(t, err)
		assert.Equal(t, 1, src.suggestionCalls)
	})

	t.Run("UpdateSwitchesModeAndLoadsRoster", func(t *testing.T) {
		src := &countingSource{fakeSource: fakeSource{suggestions: []Suggestion{{ID: api.ParseID("7")}}, roster: roster()}}
		svc, store, _ := newTestService(src)

		w, err := svc.Panel(ctx, key, requestID)
		require.NoError(t, err)

		q := "dami"
		require.NoError(t, svc.Update(ctx, key, w, ModeBrowse, &q))

		stored, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, ModeBrowse, stored.Mode)
		assert.Equal(t, "dami", stored.Query)
		assert.Len(t, stored.BrowseList(), 1)
	})

	t.Run("SubmitSuccessDeletesPanelAndPublishes", func(t *testing.T) {
		src := &countingSource{fakeSource: fakeSource{suggestions: []Suggestion{{ID: api.ParseID("7"), IsShortlisted: true}}}}
		svc, store, published := newTestService(src)

		w, err := svc.Panel(ctx, key, requestID)
		require.NoError(t, err)
		require.NoError(t, svc.Submit(ctx, key, w))

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, ErrPanelNotFound)
		require.Len(t, *published, 1)
		ev := (*published)[0]
		assert.Equal(t, events.MatchConfirmed, ev.Type)
		assert.Equal(t, "42", ev.Subject)
		assert.Equal(t, "7", ev.Attributes["teacherId"])
		assert.Equal(t, "root@suxess.ng", ev.ActorEmail)
	})

	t.Run("SubmitFailureKeepsPanel", func(t *testing.T) {
		src := &countingSource{fakeSource: fakeSource{
			suggestions: []Suggestion{{ID: api.ParseID("7"), IsShortlisted: true}},
			matchErr:    &api.Error{Status: 500},
		}}
		svc, store, published := newTestService(src)

		w, err := svc.Panel(ctx, key, requestID)
		require.NoError(t, err)
		require.Error(t, svc.Submit(ctx, key, w))

		stored, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, ModeRecommendations, stored.Mode)
		assert.Equal(t, MatchFailedMessage, stored.Err)
		assert.Empty(t, *published)
	})
}
