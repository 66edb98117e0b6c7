package activity

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/suxessedu/suxess-web/internal/remote"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
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
	router.Get("/logs", h.resp.Handle(h.ActivityLogs))
	router.Get("/lesson-logs", h.resp.Handle(h.LessonLogs))
}

type ActivityPage struct {
	Logs    []Entry
	Pager   remote.Pager
	Range   DateRange
	Filters map[string]string
	Err     string
}

type LessonPage struct {
	Logs       []LessonEntry
	Pager      remote.Pager
	TotalHours float64
	Err        string
}

func (h *Handler) ActivityLogs(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	rng := DateRange{
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
	}
	page := ActivityPage{
		Logs:    []Entry{},
		Pager:   remote.NewPager(remote.PageFromRequest(r), 0, 0),
		Range:   rng,
		Filters: rng.Filters(),
	}

	result, err := h.service.ActivityLogs(r.Context(), page.Pager.Current, rng)
	switch {
	case err == nil:
		page.Logs = result.Logs
		page.Pager = result.Pager()
	case errors.Is(err, ErrInvalidRange):
		page.Err = "Start date must not be after end date."
	case isValidation(err):
		page.Err = "Dates must be in YYYY-MM-DD format."
	default:
		msg, err := web.Inline(err, "Failed to load activity logs.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "activity log fetch failed", "message", msg)
		page.Err = msg
	}

	return h.resp.Render(w, r, http.StatusOK, "logs", web.View{Title: "Activity Logs", Active: "logs", Data: page})
}

func (h *Handler) LessonLogs(w http.ResponseWriter, r *http.Request) error {
	page := LessonPage{
		Logs:  []LessonEntry{},
		Pager: remote.NewPager(remote.PageFromRequest(r), 0, 0),
	}

	result, err := h.service.LessonLogs(r.Context(), page.Pager.Current)
	if err != nil {
		msg, err := web.Inline(err, "Failed to load lesson logs.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "lesson log fetch failed", "message", msg)
		page.Err = msg
	} else {
		page.Logs = result.Logs
		page.Pager = result.Pager()
		page.TotalHours = PageHours(result.Logs)
	}

	return h.resp.Render(w, r, http.StatusOK, "lesson_logs", web.View{Title: "Lesson Logs", Active: "lesson-logs", Data: page})
}

func isValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
