package teacher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/remote"
	"github.com/suxessedu/suxess-web/internal/session"
)

type Service interface {
	List(ctx context.Context) ([]Teacher, error)
	Verify(ctx context.Context, id api.ID) error
	ToggleSuspend(ctx context.Context, id api.ID) error
}

type service struct {
	client  api.Caller
	bus     *events.Bus
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(client api.Caller, bus *events.Bus, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		client:  client,
		bus:     bus,
		metrics: m,
		logger:  logger,
	}
}

func (s *service) List(ctx context.Context) ([]Teacher, error) {
	return remote.List[Teacher](ctx, s.client, "/admin/teachers")
}

func (s *service) Verify(ctx context.Context, id api.ID) error {
	err := s.client.Post(ctx, "/admin/users/"+url.PathEscape(id.String())+"/verify", nil, nil)
	s.metrics.RecordRowAction(ctx, "verify_teacher", err == nil)
	if err != nil {
		return fmt.Errorf("verify teacher %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "teacher verified", "teacher_id", id.String())
	s.bus.Publish(ctx, session.Event(ctx, events.UserVerified, id.String(), map[string]string{"role": "teacher"}))
	return nil
}

func (s *service) ToggleSuspend(ctx context.Context, id api.ID) error {
	err := s.client.Post(ctx, "/admin/users/"+url.PathEscape(id.String())+"/toggle-suspend", nil, nil)
	s.metrics.RecordRowAction(ctx, "toggle_suspend", err == nil)
	if err != nil {
		return fmt.Errorf("toggle suspension of teacher %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "teacher suspension toggled", "teacher_id", id.String())
	s.bus.Publish(ctx, session.Event(ctx, events.SuspensionToggled, id.String(), nil))
	return nil
}
