package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/suxessedu/suxess-web/internal/api"
)

const (
	// RoleAdmin is the only role allowed into the console.
	RoleAdmin = "admin"
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath = "/login"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// Cookie is one upstream credential cookie carried inside the session.
type Cookie struct {
	Name  string `json:"n"`
	Value string `json:"v"`
}

// Record is the persisted proof of authentication.
type Record struct {
	UserID    api.ID
	FullName  string
	Email     string
	Role      string
	SessionID string
	Upstream  []Cookie
}

func (r *Record) IsAdmin() bool {
	return r != nil && r.Role == RoleAdmin
}

// Cookies returns the upstream credentials in a form the API client accepts.
func (r *Record) Cookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(r.Upstream))
	for _, c := range r.Upstream {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies
}

// UpstreamCookies keeps the name and value of cookies issued by the API.
func UpstreamCookies(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Value == "" || c.MaxAge < 0 {
			continue
		}
		out = append(out, Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Store persists exactly one session record per browser.
type Store interface {
	Get(r *http.Request) (*Record, error)
	Set(w http.ResponseWriter, rec *Record) error
	Clear(w http.ResponseWriter)
}

type contextKey string

const recordKey contextKey = "session_record"

func WithRecord(ctx context.Context, rec *Record) context.Context {
	return context.WithValue(ctx, recordKey, rec)
}

// FromContext returns the record placed by Guard.
func FromContext(ctx context.Context) (*Record, bool) {
	rec, ok := ctx.Value(recordKey).(*Record)
	return rec, ok && rec != nil
}
