package teacher

import (
	"log/slog"
	"net/http"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/panel"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
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
	router.Get("/teachers", h.resp.Handle(h.List))
	router.Post("/teachers/{id}/verify", h.resp.Handle(h.Verify))
	router.Post("/teachers/{id}/toggle-suspend", h.resp.Handle(h.ToggleSuspend))
}

type ListPage struct {
	Teachers []Teacher
	Err      string
	Panel    *panel.Panel
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	var page ListPage

	teachers, err := h.service.List(r.Context())
	if page.Err, err = web.Inline(err, "Failed to load teachers."); err != nil {
		return err
	}
	page.Teachers = teachers

	if view := api.ParseID(r.URL.Query().Get("view")); !view.IsZero() && page.Err == "" {
		page.Panel = findPanel(teachers, view)
		if page.Panel == nil {
			page.Err = "Teacher not found."
		}
	}

	return h.resp.Render(w, r, http.StatusOK, "teachers", web.View{Title: "Teachers", Active: "teachers", Data: page})
}

func findPanel(teachers []Teacher, id api.ID) *panel.Panel {
	for _, t := range teachers {
		if t.ID.Equal(id) {
			return Panel(t)
		}
	}
	return nil
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))

	if err := h.service.Verify(r.Context(), id); err != nil {
		msg, err := web.Inline(err, "Failed to verify teacher.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "teacher verification failed", "teacher_id", id.String(), "message", msg)
		h.resp.Redirect(w, r, "/teachers", web.FlashError, msg)
		return nil
	}

	h.resp.Redirect(w, r, "/teachers", web.FlashSuccess, "Teacher verified.")
	return nil
}

func (h *Handler) ToggleSuspend(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))

	if err := h.service.ToggleSuspend(r.Context(), id); err != nil {
		msg, err := web.Inline(err, "Failed to update suspension.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "suspension toggle failed", "teacher_id", id.String(), "message", msg)
		h.resp.Redirect(w, r, "/teachers", web.FlashError, msg)
		return nil
	}

	h.resp.Redirect(w, r, "/teachers", web.FlashSuccess, "Teacher status updated.")
	return nil
}
