package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/session"
)

// Service runs panel workflows and keeps their state in a Store.
type Service struct {
	src     Source
	store   Store
	bus     *events.Bus
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(src Source, store Store, bus *events.Bus, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		src:     src,
		store:   store,
		bus:     bus,
		metrics: m,
		logger:  logger,
	}
}

// Panel returns the open panel for key, opening a new one when none is
// stored.
func (s *Service) Panel(ctx context.Context, key string, requestID api.ID) (*Workflow, error) {
	w, err := s.store.Load(ctx, key)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrPanelNotFound) {
		s.logger.WarnContext(ctx, "discarding unreadable panel state", "key", key, "error", err)
	}

	w, err = Open(ctx, s.src, requestID)
	if err != nil {
		return nil, err
	}
	if w.Err != "" {
		s.logger.WarnContext(ctx, "suggestions unavailable, opening browse mode", "request_id", requestID.String())
	}
	return w, s.store.Save(ctx, key, w)
}

// Current returns the stored panel for key, or ErrPanelNotFound.
func (s *Service) Current(ctx context.Context, key string) (*Workflow, error) {
	return s.store.Load(ctx, key)
}

// Update applies mode and query changes, loading the roster when browse
// mode first needs it.
func (s *Service) Update(ctx context.Context, key string, w *Workflow, mode Mode, query *string) error {
	if mode != "" && mode != w.Mode {
		if err := w.SwitchMode(mode); err != nil {
			return err
		}
	}
	if query != nil {
		w.SetQuery(*query)
	}
	if err := w.EnsureRoster(ctx, s.src); err != nil {
		return err
	}
	return s.store.Save(ctx, key, w)
}

func (s *Service) Select(ctx context.Context, key string, w *Workflow, id api.ID) error {
	if err := w.Select(id); err != nil {
		return err
	}
	return s.store.Save(ctx, key, w)
}

// Submit sends the match. Success deletes the panel; failure stores it
// with the error so the admin lands back where they were.
func (s *Service) Submit(ctx context.Context, key string, w *Workflow) error {
	err := w.Submit(ctx, s.src)
	if errors.Is(err, ErrNoCandidate) {
		return err
	}
	s.metrics.RecordMatch(ctx, err == nil)

	if err != nil {
		s.logger.WarnContext(ctx, "match failed", "request_id", w.RequestID.String(), "teacher_id", w.Selected.String(), "error", err)
		if saveErr := s.store.Save(ctx, key, w); saveErr != nil {
			s.logger.ErrorContext(ctx, "failed to keep panel state", "error", saveErr)
		}
		return err
	}

	s.logger.InfoContext(ctx, "tutor matched", "request_id", w.RequestID.String(), "teacher_id", w.Selected.String())
	s.bus.Publish(ctx, session.Event(ctx, events.MatchConfirmed, w.RequestID.String(), map[string]string{
		"teacherId": w.Selected.String(),
	}))
	return s.store.Delete(ctx, key)
}

func (s *Service) Close(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
