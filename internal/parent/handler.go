package parent

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
	router.Get("/parents", h.resp.Handle(h.List))
	router.Post("/parents/{id}/verify", h.resp.Handle(h.Verify))
	router.Post("/parents/{id}/upgrade", h.resp.Handle(h.Upgrade))
}

type ListPage struct {
	Parents []Parent
	Err     string
	Panel   *panel.Panel
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	var page ListPage

	parents, err := h.service.List(ctx)
	if page.Err, err = web.Inline(err, "Failed to load parents."); err != nil {
		return err
	}
	page.Parents = parents

	if view := api.ParseID(r.URL.Query().Get("view")); !view.IsZero() {
		detail, err := h.service.Get(ctx, view)
		if err != nil {
			msg, err := web.Inline(err, "Failed to load parent details.")
			if err != nil {
				return err
			}
			h.logger.WarnContext(ctx, "parent detail fetch failed", "parent_id", view.String(), "message", msg)
			page.Err = msg
			// the list row is still worth showing
			for _, p := range parents {
				if p.ID.Equal(view) {
					detail = &p
					break
				}
			}
		}
		if detail != nil {
			page.Panel = Panel(*detail)
		}
	}

	return h.resp.Render(w, r, http.StatusOK, "parents", web.View{Title: "Parents", Active: "parents", Data: page})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))

	if err := h.service.Verify(r.Context(), id); err != nil {
		msg, err := web.Inline(err, "Failed to verify parent.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "parent verification failed", "parent_id", id.String(), "message", msg)
		h.resp.Redirect(w, r, "/parents", web.FlashError, msg)
		return nil
	}

	h.resp.Redirect(w, r, "/parents", web.FlashSuccess, "Parent verified.")
	return nil
}

func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))

	if err := h.service.UpgradePremium(r.Context(), id); err != nil {
		msg, err := web.Inline(err, "Failed to upgrade parent.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "premium upgrade failed", "parent_id", id.String(), "message", msg)
		h.resp.Redirect(w, r, "/parents", web.FlashError, msg)
		return nil
	}

	h.resp.Redirect(w, r, "/parents", web.FlashSuccess, "Parent upgraded to Premium.")
	return nil
}
