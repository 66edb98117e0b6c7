package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Type names a console event.
type Type string

const (
	AuthExpired       Type = "auth.expired"
	MatchConfirmed    Type = "match.confirmed"
	PaymentConfirmed  Type = "payment.confirmed"
	UserVerified      Type = "user.verified"
	SuspensionToggled Type = "user.suspension_toggled"
	ParentUpgraded    Type = "parent.upgraded"
	AdminCreated      Type = "admin.created"
	AdminDeleted      Type = "admin.deleted"
	BroadcastSent     Type = "broadcast.sent"
)

// Event is something an admin did (or had happen to them) in the console.
type Event struct {
	Type       Type              `json:"type"`
	SessionID  string            `json:"sessionId,omitempty"`
	ActorEmail string            `json:"actorEmail,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	At         time.Time         `json:"at"`
}

type Handler func(ctx context.Context, ev Event)

// Bus fans console events out to subscribers synchronously, in
// subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
	now      func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
		now:      time.Now,
	}
}

// Subscribe registers h for the given types, or for every event when no
// type is given.
func (b *Bus) Subscribe(h Handler, types ...Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(types) == 0 {
		b.all = append(b.all, h)
		return
	}
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], h)
	}
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	if b == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = b.now()
	}

	b.mu.RLock()
	targeted := b.handlers[ev.Type]
	handlers := make([]Handler, 0, len(targeted)+len(b.all))
	handlers = append(handlers, targeted...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}

// Publisher ships events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Forward returns a handler that hands every event to p, logging failures
// instead of surfacing them to the admin.
func Forward(p Publisher, logger *slog.Logger) Handler {
	return func(ctx context.Context, ev Event) {
		if err := p.Publish(ctx, ev); err != nil {
			logger.ErrorContext(ctx, "failed to forward console event", "type", ev.Type, "error", err)
		}
	}
}

// Log returns a handler that writes each event to logger.
func Log(logger *slog.Logger) Handler {
	return func(ctx context.Context, ev Event) {
		logger.InfoContext(ctx, "console event",
			"type", ev.Type,
			"actor", ev.ActorEmail,
			"subject", ev.Subject,
		)
	}
}
