package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/suxessedu/suxess-web/internal/api"
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
	router.Get("/admin-management", h.resp.Handle(h.List))
	router.Post("/admin-management", h.resp.Handle(h.Create))
	router.Post("/admin-management/{id}/delete", h.resp.Handle(h.Delete))
}

type ListPage struct {
	Admins []Admin
	Err    string
	// ShowForm reopens the create modal, with FormErr and the values
	// entered so far (never the password).
	ShowForm bool
	Form     CreateAdminRequest
	FormErr  string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	page := ListPage{ShowForm: r.URL.Query().Get("new") == "1"}
	return h.render(w, r, http.StatusOK, page)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page ListPage) error {
	admins, err := h.service.List(r.Context())
	if page.Err, err = web.Inline(err, "Failed to load admins."); err != nil {
		return err
	}
	page.Admins = admins
	return h.resp.Render(w, r, status, "admins", web.View{Title: "Admin Management", Active: "admin-management", Data: page})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	req := CreateAdminRequest{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.WarnContext(r.Context(), "validation failed", "error", err)
		return h.render(w, r, http.StatusUnprocessableEntity, ListPage{
			ShowForm: true,
			Form:     CreateAdminRequest{FullName: req.FullName, Email: req.Email},
			FormErr:  validationMessage(err),
		})
	}

	if err := h.service.Create(r.Context(), req); err != nil {
		msg, err := web.Inline(err, "Failed to create admin.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "admin creation failed", "email", req.Email, "message", msg)
		return h.render(w, r, http.StatusOK, ListPage{
			ShowForm: true,
			Form:     CreateAdminRequest{FullName: req.FullName, Email: req.Email},
			FormErr:  msg,
		})
	}

	h.resp.Redirect(w, r, "/admin-management", web.FlashSuccess, "New admin created successfully!")
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrSelfDelete) {
			h.logger.WarnContext(r.Context(), "refused self delete", "admin_id", id.String())
			h.resp.Redirect(w, r, "/admin-management", web.FlashError, "You cannot remove your own admin access.")
			return nil
		}
		msg, err := web.Inline(err, "Failed to remove admin.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "admin removal failed", "admin_id", id.String(), "message", msg)
		h.resp.Redirect(w, r, "/admin-management", web.FlashError, msg)
		return nil
	}

	h.resp.Redirect(w, r, "/admin-management", web.FlashSuccess, "Admin removed successfully.")
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form."
	}
	switch fe := verrs[0]; fe.Field() {
	case "FullName":
		return "Full name is required."
	case "Email":
		return "Enter a valid email address."
	case "Password":
		return "Password must be at least 6 characters."
	default:
		return fe.Error()
	}
}
