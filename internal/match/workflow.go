package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/teacher"
)

// Mode is the observable state of a matching panel.
type Mode string

const (
	ModeClosed          Mode = "closed"
	ModeLoading         Mode = "loadingSuggestions"
	ModeRecommendations Mode = "recommendations"
	ModeBrowse          Mode = "browse"
	ModeSubmitting      Mode = "submitting"
)

const (
	SuggestionsFailedMessage = "Failed to get suggestions."
	RosterFailedMessage      = "Failed to load tutors."
	MatchFailedMessage       = "Failed to match tutor."
)

var (
	ErrNoCandidate      = errors.New("no candidate teacher selected")
	ErrUnknownCandidate = errors.New("candidate is not a suggestion or a matchable teacher")
	ErrInvalidMode      = errors.New("invalid panel mode")
)

// Suggestion is one server-ranked candidate for a request.
type Suggestion struct {
	ID            api.ID       `json:"id"`
	Name          string       `json:"name"`
	Subjects      api.Subjects `json:"subjects"`
	MatchScore    float64      `json:"matchScore"`
	IsShortlisted bool         `json:"isShortlisted"`
}

// Source is the upstream the workflow reads from and submits to.
type Source interface {
	Suggestions(ctx context.Context, requestID api.ID) ([]Suggestion, error)
	Roster(ctx context.Context) ([]teacher.Teacher, error)
	Match(ctx context.Context, requestID, teacherID api.ID) error
}

// Workflow is the state of one open matching panel. It is stored between
// page loads, so every field is exported for encoding.
type Workflow struct {
	RequestID    api.ID            `json:"requestId"`
	Mode         Mode              `json:"mode"`
	Suggestions  []Suggestion      `json:"suggestions"`
	Roster       []teacher.Teacher `json:"roster,omitempty"`
	RosterLoaded bool              `json:"rosterLoaded"`
	Selected     api.ID            `json:"selected"`
	Query        string            `json:"query,omitempty"`
	Err          string            `json:"error,omitempty"`
}

// Open starts a panel for requestID by fetching its suggestions. An empty
// suggestion set opens straight into browse mode. A failed fetch also falls
// back to browse so the admin can still match by hand; only a 401 is
// returned as an error.
func Open(ctx context.Context, src Source, requestID api.ID) (*Workflow, error) {
	w := &Workflow{RequestID: requestID, Mode: ModeLoading}

	suggestions, err := src.Suggestions(ctx, requestID)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, err
		}
		w.Mode = ModeBrowse
		w.Err = SuggestionsFailedMessage
		return w, nil
	}

	w.Suggestions = suggestions
	if len(suggestions) == 0 {
		w.Mode = ModeBrowse
		return w, nil
	}

	w.Mode = ModeRecommendations
	for _, s := range suggestions {
		if s.IsShortlisted {
			w.Selected = s.ID
			break
		}
	}
	return w, nil
}

// SwitchMode moves between recommendations and browse. The selection is kept.
func (w *Workflow) SwitchMode(mode Mode) error {
	if mode != ModeRecommendations && mode != ModeBrowse {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	w.Mode = mode
	w.Err = ""
	return nil
}

// EnsureRoster loads the matchable teachers the first time browse mode
// needs them. Later calls are no-ops for the rest of the panel's life.
func (w *Workflow) EnsureRoster(ctx context.Context, src Source) error {
	if w.Mode != ModeBrowse || w.RosterLoaded {
		return nil
	}

	roster, err := src.Roster(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		w.Err = RosterFailedMessage
		return nil
	}

	matchable := make([]teacher.Teacher, 0, len(roster))
	for _, t := range roster {
		if t.Matchable() {
			matchable = append(matchable, t)
		}
	}
	w.Roster = matchable
	w.RosterLoaded = true
	return nil
}

func (w *Workflow) SetQuery(q string) {
	w.Query = strings.TrimSpace(q)
}

// Groups splits suggestions into the parent's shortlist and the rest,
// both in server order.
func (w *Workflow) Groups() (shortlisted, recommended []Suggestion) {
	for _, s := range w.Suggestions {
		if s.IsShortlisted {
			shortlisted = append(shortlisted, s)
		} else {
			recommended = append(recommended, s)
		}
	}
	return shortlisted, recommended
}

// BrowseList is the matchable roster narrowed by the query, matched
// case-insensitively against name or subjects.
func (w *Workflow) BrowseList() []teacher.Teacher {
	if w.Query == "" {
		return w.Roster
	}
	q := strings.ToLower(w.Query)
	out := make([]teacher.Teacher, 0, len(w.Roster))
	for _, t := range w.Roster {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Subjects.String()), q) {
			out = append(out, t)
		}
	}
	return out
}

// Select makes id the candidate. It must be a suggestion or a teacher in
// the matchable roster.
func (w *Workflow) Select(id api.ID) error {
	if id.IsZero() {
		return ErrNoCandidate
	}
	for _, s := range w.Suggestions {
		if s.ID.Equal(id) {
			w.Selected, w.Err = s.ID, ""
			return nil
		}
	}
	for _, t := range w.Roster {
		if t.ID.Equal(id) {
			w.Selected, w.Err = t.ID, ""
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
}

func (w *Workflow) CanSubmit() bool {
	return !w.Selected.IsZero()
}

// Submit matches the request to the selected teacher. On success the panel
// is closed; on failure it returns to the mode it was in with an error.
func (w *Workflow) Submit(ctx context.Context, src Source) error {
	if !w.CanSubmit() {
		return ErrNoCandidate
	}

	prior := w.Mode
	w.Mode = ModeSubmitting
	if err := src.Match(ctx, w.RequestID, w.Selected); err != nil {
		w.Mode = prior
		w.Err = MatchFailedMessage
		return err
	}

	w.Mode = ModeClosed
	w.Err = ""
	return nil
}
