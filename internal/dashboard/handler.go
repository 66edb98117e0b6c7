package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
)

const (
	DashboardFailedMessage = "Could not load dashboard data."
	AnalyticsFailedMessage = "Could not load analytics."
)

type Handler struct {
	service Service
	resp    *web.Responder
	logger  *slog.Logger
}

func NewHandler(service Service, resp *web.Responder, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		resp:    resp,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.resp.Handle(h.Dashboard))
	router.Get("/analytics", h.resp.Handle(h.Analytics))
}

type DashboardPage struct {
	Overview *Overview
	Err      string
}

type AnalyticsPage struct {
	Analytics *Analytics
	Err       string
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) error {
	var page DashboardPage

	overview, err := h.service.Overview(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		h.logger.WarnContext(r.Context(), "dashboard fetch failed", "error", err)
		page.Err = DashboardFailedMessage
	}
	page.Overview = overview

	return h.resp.Render(w, r, http.StatusOK, "dashboard", web.View{Title: "Dashboard", Active: "dashboard", Data: page})
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) error {
	var page AnalyticsPage

	analytics, err := h.service.Analytics(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		h.logger.WarnContext(r.Context(), "analytics fetch failed", "error", err)
		page.Err = AnalyticsFailedMessage
	}
	page.Analytics = analytics

	return h.resp.Render(w, r, http.StatusOK, "analytics", web.View{Title: "Analytics", Active: "analytics", Data: page})
}
