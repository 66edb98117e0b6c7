package request

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/match"
	"github.com/suxessedu/suxess-web/internal/panel"
	"github.com/suxessedu/suxess-web/internal/session"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
)

const (
	MatchedMessage     = "Tutor matched successfully!"
	NoCandidateMessage = "Please select a teacher to match."
)

type Handler struct {
	service Service
	match   *match.Service
	resp    *web.Responder
	logger  *slog.Logger
}

func NewHandler(service Service, matcher *match.Service, resp *web.Responder, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		match:   matcher,
		resp:    resp,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/requests", h.resp.Handle(h.List))
	router.Post("/requests/{id}/confirm-payment", h.resp.Handle(h.ConfirmPayment))

	router.Get("/requests/{id}/match", h.resp.Handle(h.ShowMatch))
	router.Post("/requests/{id}/match", h.resp.Handle(h.SubmitMatch))
	router.Post("/requests/{id}/match/mode", h.resp.Handle(h.SwitchMode))
	router.Post("/requests/{id}/match/select", h.resp.Handle(h.SelectCandidate))
	router.Get("/requests/{id}/match/close", h.resp.Handle(h.CloseMatch))
	router.Post("/requests/{id}/match/close", h.resp.Handle(h.CloseMatch))
}

type ListPage struct {
	Requests []TutorRequest
	Err      string
	Panel    *panel.Panel
	Match    *MatchView
}

// Choice is one selectable teacher row in the matching panel.
type Choice struct {
	ID       api.ID
	Name     string
	Subjects string
	Score    float64
	Selected bool
}

// MatchView is the matching panel as rendered over the requests list.
type MatchView struct {
	Request      TutorRequest
	Mode         match.Mode
	Shortlisted  []Choice
	Recommended  []Choice
	Browse       []Choice
	RosterLoaded bool
	Query        string
	CanSubmit    bool
	Err          string
	URL          string
}

func (m *MatchView) Browsing() bool { return m.Mode == match.ModeBrowse }

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	var page ListPage

	requests, err := h.service.List(r.Context())
	if page.Err, err = web.Inline(err, "Failed to load requests."); err != nil {
		return err
	}
	page.Requests = requests

	if view := api.ParseID(r.URL.Query().Get("view")); !view.IsZero() && page.Err == "" {
		if req, err := Find(requests, view); err == nil {
			page.Panel = Panel(*req)
		} else {
			page.Err = "Request not found."
		}
	}

	return h.render(w, r, page)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page ListPage) error {
	return h.resp.Render(w, r, http.StatusOK, "requests", web.View{Title: "Tutor Requests", Active: "requests", Data: page})
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))

	if err := h.service.ConfirmPayment(r.Context(), id); err != nil {
		msg, err := web.Inline(err, "Failed to confirm payment.")
		if err != nil {
			return err
		}
		h.logger.WarnContext(r.Context(), "payment confirmation failed", "request_id", id.String(), "message", msg)
		h.resp.Redirect(w, r, "/requests", web.FlashError, msg)
		return nil
	}

	h.resp.Redirect(w, r, "/requests", web.FlashSuccess, "Payment confirmed.")
	return nil
}

func matchURL(id api.ID) string {
	return "/requests/" + url.PathEscape(id.String()) + "/match"
}

func panelKey(r *http.Request, id api.ID) string {
	var sessionID string
	if rec, ok := session.FromContext(r.Context()); ok {
		sessionID = rec.SessionID
	}
	return match.Key(sessionID, id)
}

// ShowMatch opens (or re-renders) the matching panel over the requests list.
// The optional mode and q parameters switch mode and filter the roster; open
// discards any earlier panel for the request.
func (h *Handler) ShowMatch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	id := api.ParseID(chi.URLParam(r, "id"))

	requests, err := h.service.List(ctx)
	if err != nil {
		msg, err := web.Inline(err, "Failed to load requests.")
		if err != nil {
			return err
		}
		h.resp.Redirect(w, r, "/requests", web.FlashError, msg)
		return nil
	}

	req, err := Find(requests, id)
	if err != nil {
		h.resp.Redirect(w, r, "/requests", web.FlashError, "Request not found.")
		return nil
	}
	key := panelKey(r, id)
	if !req.CanMatch() {
		if err := h.match.Close(ctx, key); err != nil {
			h.logger.WarnContext(ctx, "failed to drop panel state", "error", err)
		}
		h.resp.Redirect(w, r, "/requests", web.FlashError, "Only pending requests can be matched.")
		return nil
	}

	params := r.URL.Query()
	if params.Has("open") {
		// a fresh open always refetches suggestions
		if err := h.match.Close(ctx, key); err != nil {
			h.logger.WarnContext(ctx, "failed to drop panel state", "error", err)
		}
	}

	wf, err := h.match.Panel(ctx, key, req.ID)
	if err != nil {
		return err
	}

	var query *string
	if params.Has("q") {
		q := params.Get("q")
		query = &q
	}
	if err := h.match.Update(ctx, key, wf, match.Mode(params.Get("mode")), query); err != nil {
		if errors.Is(err, match.ErrInvalidMode) {
			h.resp.Redirect(w, r, matchURL(id), web.FlashError, "Unknown panel mode.")
			return nil
		}
		return err
	}

	return h.render(w, r, ListPage{Requests: requests, Match: newMatchView(*req, wf)})
}

func newMatchView(req TutorRequest, wf *match.Workflow) *MatchView {
	choice := func(id api.ID, name, subjects string, score float64) Choice {
		return Choice{ID: id, Name: name, Subjects: subjects, Score: score, Selected: id.Equal(wf.Selected)}
	}

	view := &MatchView{
		Request:      req,
		Mode:         wf.Mode,
		RosterLoaded: wf.RosterLoaded,
		Query:        wf.Query,
		CanSubmit:    wf.CanSubmit(),
		Err:          wf.Err,
		URL:          matchURL(req.ID),
	}

	shortlisted, recommended := wf.Groups()
	for _, s := range shortlisted {
		view.Shortlisted = append(view.Shortlisted, choice(s.ID, s.Name, s.Subjects.String(), s.MatchScore))
	}
	for _, s := range recommended {
		view.Recommended = append(view.Recommended, choice(s.ID, s.Name, s.Subjects.String(), s.MatchScore))
	}
	for _, t := range wf.BrowseList() {
		view.Browse = append(view.Browse, choice(t.ID, t.Name, t.Subjects.String(), 0))
	}
	return view
}

// currentPanel loads the stored panel. A missing one sends the admin back
// to reopen it rather than acting on state they never saw.
func (h *Handler) currentPanel(w http.ResponseWriter, r *http.Request, id api.ID) (*match.Workflow, string, bool, error) {
	key := panelKey(r, id)
	wf, err := h.match.Current(r.Context(), key)
	if errors.Is(err, match.ErrPanelNotFound) {
		h.resp.Redirect(w, r, matchURL(id), web.FlashError, "The matching panel expired. Please choose a tutor again.")
		return nil, key, false, nil
	}
	if err != nil {
		return nil, key, false, err
	}
	return wf, key, true, nil
}

func (h *Handler) SwitchMode(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))
	wf, key, ok, err := h.currentPanel(w, r, id)
	if !ok {
		return err
	}

	if err := h.match.Update(r.Context(), key, wf, match.Mode(r.FormValue("mode")), nil); err != nil {
		if errors.Is(err, match.ErrInvalidMode) {
			h.resp.Redirect(w, r, matchURL(id), web.FlashError, "Unknown panel mode.")
			return nil
		}
		return err
	}

	http.Redirect(w, r, matchURL(id), http.StatusSeeOther)
	return nil
}

func (h *Handler) SelectCandidate(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))
	wf, key, ok, err := h.currentPanel(w, r, id)
	if !ok {
		return err
	}

	if err := h.match.Select(r.Context(), key, wf, api.ParseID(r.FormValue("teacherId"))); err != nil {
		if errors.Is(err, match.ErrUnknownCandidate) || errors.Is(err, match.ErrNoCandidate) {
			h.logger.WarnContext(r.Context(), "candidate rejected", "request_id", id.String(), "error", err)
			h.resp.Redirect(w, r, matchURL(id), web.FlashError, "That tutor cannot be matched to this request.")
			return nil
		}
		return err
	}

	http.Redirect(w, r, matchURL(id), http.StatusSeeOther)
	return nil
}

func (h *Handler) SubmitMatch(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))
	wf, key, ok, err := h.currentPanel(w, r, id)
	if !ok {
		return err
	}

	err = h.match.Submit(r.Context(), key, wf)
	switch {
	case err == nil:
		h.resp.Redirect(w, r, "/requests", web.FlashSuccess, MatchedMessage)
		return nil
	case errors.Is(err, match.ErrNoCandidate):
		h.resp.Redirect(w, r, matchURL(id), web.FlashError, NoCandidateMessage)
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return err
	default:
		// the panel carries the failure message itself
		http.Redirect(w, r, matchURL(id), http.StatusSeeOther)
		return nil
	}
}

func (h *Handler) CloseMatch(w http.ResponseWriter, r *http.Request) error {
	id := api.ParseID(chi.URLParam(r, "id"))
	if err := h.match.Close(r.Context(), panelKey(r, id)); err != nil {
		return fmt.Errorf("close panel for request %s: %w", id, err)
	}
	http.Redirect(w, r, "/requests", http.StatusSeeOther)
	return nil
}
