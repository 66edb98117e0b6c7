package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "suxess-admin-console"

type CookieOptions struct {
	Name     string
	Secret   string
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

// CookieStore keeps the session record in a signed HttpOnly cookie.
type CookieStore struct {
	opts CookieOptions
	now  func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
	UserID   api.ID   `json:"uid"`
	FullName string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Upstream []Cookie `json:"up,omitempty"`
}

func NewCookieStore(opts CookieOptions) (*CookieStore, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if opts.Name == "" {
		opts.Name = "admin_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	return &CookieStore{opts: opts, now: time.Now}, nil
}

func (s *CookieStore) Get(r *http.Request) (*Record, error) {
	cookie, err := r.Cookie(s.opts.Name)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	var c claims
	_, err = jwt.ParseWithClaims(cookie.Value, &c, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.opts.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	return &Record{
		UserID:    c.UserID,
		FullName:  c.FullName,
		Email:     c.Email,
		Role:      c.Role,
		SessionID: c.ID,
		Upstream:  c.Upstream,
	}, nil
}

func (s *CookieStore) Set(w http.ResponseWriter, rec *Record) error {
	if rec.SessionID == "" {
		rec.SessionID = uuid.NewString()
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.SessionID,
			Subject:   rec.UserID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TTL)),
		},
		UserID:   rec.UserID,
		FullName: rec.FullName,
		Email:    rec.Email,
		Role:     rec.Role,
		Upstream: rec.Upstream,
	})

	signed, err := token.SignedString([]byte(s.opts.Secret))
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.Name,
		Value:    signed,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
		Path:     "/",
		MaxAge:   int(s.opts.TTL.Seconds()),
	})
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.Name,
		Value:    "",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
		Path:     "/",
		MaxAge:   -1,
	})
}
