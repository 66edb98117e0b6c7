package request

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

var ErrRequestNotFound = errors.New("request not found")

type Service interface {
	List(ctx context.Context) ([]TutorRequest, error)
	ConfirmPayment(ctx context.Context, id api.ID) error
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

func (s *service) List(ctx context.Context) ([]TutorRequest, error) {
	return remote.List[TutorRequest](ctx, s.client, "/admin/requests")
}

func (s *service) ConfirmPayment(ctx context.Context, id api.ID) error {
	err := s.client.Post(ctx, "/admin/requests/"+url.PathEscape(id.String())+"/confirm-payment", nil, nil)
	s.metrics.RecordRowAction(ctx, "confirm_payment", err == nil)
	if err != nil {
		return fmt.Errorf("confirm payment for request %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "payment confirmed", "request_id", id.String())
	s.bus.Publish(ctx, session.Event(ctx, events.PaymentConfirmed, id.String(), nil))
	return nil
}

// Find returns the request with id from requests.
func Find(requests []TutorRequest, id api.ID) (*TutorRequest, error) {
	for i := range requests {
		if requests[i].ID.Equal(id) {
			return &requests[i], nil
		}
	}
	return nil, ErrRequestNotFound
}
