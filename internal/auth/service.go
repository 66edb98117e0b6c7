package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/session"
)

var (
	ErrNotAdmin    = errors.New("account is not an admin")
	ErrMissingUser = errors.New("response carried no user")
)

// User is the account returned by login and setup verification.
type User struct {
	ID       api.ID `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type userResponse struct {
	User *User `json:"user"`
}

// Doer is the part of the API client that exposes response cookies.
type Doer interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out any) (*http.Response, error)
}

type Service struct {
	client  Doer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(client Doer, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		client:  client,
		metrics: m,
		logger:  logger,
	}
}

// Login signs in with the upstream and returns the session to persist. A
// non-admin account is refused with ErrNotAdmin.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Record, error) {
	rec, err := s.authenticate(ctx, "/auth/login", map[string]string{"email": email, "password": password})
	s.metrics.RecordLogin(ctx, err == nil)
	if err != nil {
		s.logger.WarnContext(ctx, "login failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin logged in", "email", rec.Email)
	return rec, nil
}

// StartSetup provisions the first super admin. The upstream sends a one-time
// passcode out of band; its cookies are returned for the verify step.
func (s *Service) StartSetup(ctx context.Context, fullName, password string) ([]session.Cookie, error) {
	resp, err := s.client.Do(ctx, http.MethodPost, "/auth/setup-super-admin", nil,
		map[string]string{"fullName": fullName, "password": password}, nil)
	if err != nil {
		return nil, fmt.Errorf("start admin setup: %w", err)
	}

	s.logger.InfoContext(ctx, "admin setup started", "full_name", fullName)
	return session.UpstreamCookies(resp.Cookies()), nil
}

func (s *Service) VerifySetup(ctx context.Context, otp string) (*session.Record, error) {
	rec, err := s.authenticate(ctx, "/auth/verify-super-admin-otp", map[string]string{"otp": otp})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin setup verified", "email", rec.Email)
	return rec, nil
}

func (s *Service) authenticate(ctx context.Context, path string, body any) (*session.Record, error) {
	var out userResponse
	resp, err := s.client.Do(ctx, http.MethodPost, path, nil, body, &out)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if out.User == nil {
		return nil, ErrMissingUser
	}
	if out.User.Role != session.RoleAdmin {
		return nil, fmt.Errorf("%w: role %q", ErrNotAdmin, out.User.Role)
	}

	return &session.Record{
		UserID:   out.User.ID,
		FullName: out.User.FullName,
		Email:    out.User.Email,
		Role:     out.User.Role,
		Upstream: session.UpstreamCookies(resp.Cookies()),
	}, nil
}
