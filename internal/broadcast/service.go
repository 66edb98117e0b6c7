package broadcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/session"
)

const (
	SentMessage   = "Broadcast sent successfully!"
	FailedMessage = "Failed to send broadcast."
)

// Request is the composer form, sent upstream as is.
type Request struct {
	Title      string `json:"title" validate:"required,max=120"`
	Message    string `json:"message" validate:"required,max=2000"`
	TargetRole string `json:"targetRole" validate:"required,oneof=all parent teacher"`
}

type response struct {
	Message string `json:"message"`
}

type Service interface {
	// Send returns the confirmation text to show the admin.
	Send(ctx context.Context, req Request) (string, error)
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

func (s *service) Send(ctx context.Context, req Request) (string, error) {
	var resp response
	err := s.client.Post(ctx, "/notifications/broadcast", req, &resp)
	s.metrics.RecordBroadcast(ctx, req.TargetRole, err == nil)
	if err != nil {
		return "", fmt.Errorf("broadcast to %s: %w", req.TargetRole, err)
	}

	s.logger.InfoContext(ctx, "broadcast sent", "target_role", req.TargetRole, "title", req.Title)
	s.bus.Publish(ctx, session.Event(ctx, events.BroadcastSent, req.Title, map[string]string{"targetRole": req.TargetRole}))

	if resp.Message != "" {
		return resp.Message, nil
	}
	return SentMessage, nil
}
