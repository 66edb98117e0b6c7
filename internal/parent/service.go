package parent

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
	List(ctx context.Context) ([]Parent, error)
	Get(ctx context.Context, id api.ID) (*Parent, error)
	Verify(ctx context.Context, id api.ID) error
	UpgradePremium(ctx context.Context, id api.ID) error
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

func (s *service) List(ctx context.Context) ([]Parent, error) {
	return remote.List[Parent](ctx, s.client, "/admin/parents")
}

// Get fetches the full record; list rows are summaries.
func (s *service) Get(ctx context.Context, id api.ID) (*Parent, error) {
	var p Parent
	if err := s.client.Get(ctx, "/admin/parents/"+url.PathEscape(id.String()), nil, &p); err != nil {
		return nil, fmt.Errorf("get parent %s: %w", id, err)
	}
	return &p, nil
}

func (s *service) Verify(ctx context.Context, id api.ID) error {
	err := s.client.Post(ctx, "/admin/users/"+url.PathEscape(id.String())+"/verify", nil, nil)
	s.metrics.RecordRowAction(ctx, "verify_parent", err == nil)
	if err != nil {
		return fmt.Errorf("verify parent %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "parent verified", "parent_id", id.String())
	s.bus.Publish(ctx, session.Event(ctx, events.UserVerified, id.String(), map[string]string{"role": "parent"}))
	return nil
}

func (s *service) UpgradePremium(ctx context.Context, id api.ID) error {
	err := s.client.Post(ctx, "/admin/users/"+url.PathEscape(id.String())+"/upgrade-premium", nil, nil)
	s.metrics.RecordRowAction(ctx, "upgrade_premium", err == nil)
	if err != nil {
		return fmt.Errorf("upgrade parent %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "parent upgraded to premium", "parent_id", id.String())
	s.bus.Publish(ctx, session.Event(ctx, events.ParentUpgraded, id.String(), nil))
	return nil
}
