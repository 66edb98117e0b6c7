package session

import (
	"context"

	"github.com/suxessedu/suxess-web/internal/events"
)

// Event builds a console event attributed to the admin acting in ctx.
func Event(ctx context.Context, typ events.Type, subject string, attrs map[string]string) events.Event {
	ev := events.Event{Type: typ, Subject: subject, Attributes: attrs}
	if rec, ok := FromContext(ctx); ok {
		ev.SessionID = rec.SessionID
		ev.ActorEmail = rec.Email
	}
	return ev
}
