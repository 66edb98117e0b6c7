package broadcast

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   Service
	resp      *web.Responder
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service Service, resp *web.Responder, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		resp:      resp,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/broadcasts", h.resp.Handle(h.Compose))
	router.Post("/broadcasts", h.resp.Handle(h.Send))
}

type Option struct {
	Value string
	Label string
}

var TargetRoles = []Option{
	{Value: "all", Label: "All Users"},
	{Value: "parent", Label: "Parents Only"},
	{Value: "teacher", Label: "Teachers Only"},
}

type ComposePage struct {
	Form  Request
	Roles []Option
	Err   string
}

func (h *Handler) Compose(w http.ResponseWriter, r *http.Request) error {
	return h.render(w, r, http.StatusOK, ComposePage{Form: Request{TargetRole: "all"}})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page ComposePage) error {
	page.Roles = TargetRoles
	return h.resp.Render(w, r, status, "broadcasts", web.View{Title: "Broadcasts", Active: "broadcasts", Data: page})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) error {
	req := Request{
		Title:      strings.TrimSpace(r.FormValue("title")),
		Message:    strings.TrimSpace(r.FormValue("message")),
		TargetRole: r.FormValue("targetRole"),
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.WarnContext(r.Context(), "validation failed", "error", err)
		return h.render(w, r, http.StatusUnprocessableEntity, ComposePage{
			Form: req,
			Err:  "Please fill in every field.",
		})
	}

	confirmation, err := h.service.Send(r.Context(), req)
	if err != nil {
		msg, err := web.Inline(err, FailedMessage)
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "broadcast failed", "message", msg)
		return h.render(w, r, http.StatusOK, ComposePage{Form: req, Err: msg})
	}

	h.resp.Redirect(w, r, "/broadcasts", web.FlashSuccess, confirmation)
	return nil
}
