package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/session"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	InvalidCredentialsMessage = "Invalid credentials. Please try again."
	AccessDeniedMessage       = "Access denied. Admin privileges required."
	VerifiedMessage           = "Success! Account verified."
)

const (
	StepStart = "start"
	StepOTP   = "otp"
)

type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type SetupRequest struct {
	FullName string `validate:"required,max=120"`
	Password string `validate:"required,min=6"`
}

type LoginPage struct {
	Email string
	Err   string
}

type SetupPage struct {
	Step     string
	FullName string
	Err      string
}

type Handler struct {
	service   *Service
	sessions  session.Store
	setup     session.Store
	resp      *web.Responder
	logger    *slog.Logger
	validator *validator.Validate
}

// NewHandler wires the public sign-in pages. setup holds the upstream cookies
// of an admin setup between its two steps.
func NewHandler(service *Service, sessions, setup session.Store, resp *web.Responder, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		sessions:  sessions,
		setup:     setup,
		resp:      resp,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/login", h.resp.Handle(h.ShowLogin))
	router.Post("/login", h.resp.Handle(h.Login))
	router.Post("/logout", h.Logout)

	router.Get("/setup-admin", h.resp.Handle(h.ShowSetup))
	router.Post("/setup-admin", h.resp.Handle(h.StartSetup))
	router.Post("/setup-admin/verify", h.resp.Handle(h.VerifySetup))
}

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) error {
	if rec, err := h.sessions.Get(r); err == nil && rec.IsAdmin() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}
	return h.renderLogin(w, r, http.StatusOK, LoginPage{})
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, page LoginPage) error {
	return h.resp.Render(w, r, status, "login", web.View{Title: "Sign In", Data: page})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	req := LoginRequest{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	page := LoginPage{Email: req.Email}

	if err := h.validator.Struct(req); err != nil {
		page.Err = InvalidCredentialsMessage
		return h.renderLogin(w, r, http.StatusUnprocessableEntity, page)
	}

	rec, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotAdmin):
		page.Err = AccessDeniedMessage
		return h.renderLogin(w, r, http.StatusForbidden, page)
	case errors.Is(err, api.ErrUnreachable):
		page.Err = api.UnreachableMessage
		return h.renderLogin(w, r, http.StatusBadGateway, page)
	default:
		page.Err = InvalidCredentialsMessage
		return h.renderLogin(w, r, http.StatusUnauthorized, page)
	}

	if err := h.sessions.Set(w, rec); err != nil {
		return err
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "admin logged out")
	session.Logout(w, r, h.sessions)
}

func (h *Handler) renderSetup(w http.ResponseWriter, r *http.Request, status int, page SetupPage) error {
	return h.resp.Render(w, r, status, "setup", web.View{Title: "Super Admin Setup", Data: page})
}

func (h *Handler) ShowSetup(w http.ResponseWriter, r *http.Request) error {
	page := SetupPage{Step: StepStart}
	if r.URL.Query().Get("step") == StepOTP {
		pending, err := h.setup.Get(r)
		if err == nil {
			page.Step = StepOTP
			page.FullName = pending.FullName
		}
	}
	return h.renderSetup(w, r, http.StatusOK, page)
}

func (h *Handler) StartSetup(w http.ResponseWriter, r *http.Request) error {
	req := SetupRequest{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Password: r.FormValue("password"),
	}
	page := SetupPage{Step: StepStart, FullName: req.FullName}

	if err := h.validator.Struct(req); err != nil {
		page.Err = "Enter your full name and a password of at least 6 characters."
		return h.renderSetup(w, r, http.StatusUnprocessableEntity, page)
	}

	cookies, err := h.service.StartSetup(r.Context(), req.FullName, req.Password)
	if err != nil {
		page.Err = api.Message(err, "Failed to start setup.")
		h.logger.WarnContext(r.Context(), "admin setup failed", "message", page.Err)
		return h.renderSetup(w, r, http.StatusOK, page)
	}

	if err := h.setup.Set(w, &session.Record{FullName: req.FullName, Upstream: cookies}); err != nil {
		return err
	}
	http.Redirect(w, r, "/setup-admin?step="+StepOTP, http.StatusSeeOther)
	return nil
}

func (h *Handler) VerifySetup(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	page := SetupPage{Step: StepOTP}

	pending, err := h.setup.Get(r)
	if err != nil {
		h.resp.Redirect(w, r, "/setup-admin", web.FlashError, "Your setup has expired. Please start again.")
		return nil
	}
	page.FullName = pending.FullName

	otp := strings.TrimSpace(r.FormValue("otp"))
	if otp == "" {
		page.Err = "Enter the code you received."
		return h.renderSetup(w, r, http.StatusUnprocessableEntity, page)
	}

	rec, err := h.service.VerifySetup(api.WithPendingCookies(ctx, pending.Cookies()), otp)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotAdmin):
		page.Err = AccessDeniedMessage
		return h.renderSetup(w, r, http.StatusForbidden, page)
	default:
		page.Err = api.Message(err, "Failed to verify OTP.")
		h.logger.WarnContext(ctx, "admin setup verification failed", "message", page.Err)
		return h.renderSetup(w, r, http.StatusOK, page)
	}

	if len(rec.Upstream) == 0 {
		rec.Upstream = pending.Upstream
	}
	if err := h.sessions.Set(w, rec); err != nil {
		return err
	}
	h.setup.Clear(w)
	h.resp.Redirect(w, r, "/", web.FlashSuccess, VerifiedMessage)
	return nil
}
