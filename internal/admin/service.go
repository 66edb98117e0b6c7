package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/remote"
	"github.com/suxessedu/suxess-web/internal/session"
)

var ErrSelfDelete = errors.New("admins cannot delete their own account")

type Service interface {
	List(ctx context.Context) ([]Admin, error)
	Create(ctx context.Context, req CreateAdminRequest) error
	Delete(ctx context.Context, id api.ID) error
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

func (s *service) List(ctx context.Context) ([]Admin, error) {
	admins, err := remote.List[Admin](ctx, s.client, "/admin/list-admins")
	if err != nil {
		return nil, err
	}
	if rec, ok := session.FromContext(ctx); ok {
		MarkCurrent(admins, rec.UserID)
	}
	return admins, nil
}

func (s *service) Create(ctx context.Context, req CreateAdminRequest) error {
	err := s.client.Post(ctx, "/admin/create-new-admin", req, nil)
	s.metrics.RecordRowAction(ctx, "create_admin", err == nil)
	if err != nil {
		return fmt.Errorf("create admin %s: %w", req.Email, err)
	}

	s.logger.InfoContext(ctx, "admin created", "email", req.Email)
	s.bus.Publish(ctx, session.Event(ctx, events.AdminCreated, req.Email, nil))
	return nil
}

func (s *service) Delete(ctx context.Context, id api.ID) error {
	if rec, ok := session.FromContext(ctx); ok && !rec.UserID.IsZero() && rec.UserID.Equal(id) {
		return ErrSelfDelete
	}

	err := s.client.Delete(ctx, "/admin/delete-admin/"+url.PathEscape(id.String()), nil)
	s.metrics.RecordRowAction(ctx, "delete_admin", err == nil)
	if err != nil {
		return fmt.Errorf("delete admin %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "admin deleted", "admin_id", id.String())
	s.bus.Publish(ctx, session.Event(ctx, events.AdminDeleted, id.String(), nil))
	return nil
}
