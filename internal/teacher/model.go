package teacher

import (
	"strconv"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/panel"
)

const (
	StatusVerified = "Verified"
	StatusPending  = "Pending"
)

type Teacher struct {
	ID                 api.ID       `json:"id"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	NIN                string       `json:"nin"`
	Subjects           api.Subjects `json:"subjects"`
	Experience         api.Text     `json:"experience"`
	Qualification      string       `json:"qualification"`
	VerificationStatus string       `json:"verificationStatus"`
	IsSuspended        bool         `json:"isSuspended"`
	IsProfileComplete  bool         `json:"isProfileComplete"`
	AssignedCount      int          `json:"assignedCount"`
	CompletedCount     int          `json:"completedCount"`
}

// Matchable reports whether t may be assigned to a request.
func (t Teacher) Matchable() bool {
	return t.VerificationStatus == StatusVerified && !t.IsSuspended
}

func (t Teacher) Completeness() string {
	if t.IsProfileComplete {
		return "100%"
	}
	return "50%"
}

func (t Teacher) SuspendLabel() string {
	if t.IsSuspended {
		return "Reinstate"
	}
	return "Suspend"
}

// Panel describes the read-only detail panel for t.
func Panel(t Teacher) *panel.Panel {
	p := &panel.Panel{
		Title:    t.Name + "'s Details",
		Initial:  panel.Initial(t.Name),
		Subtitle: t.Email,
		Badges:   []panel.Badge{{Text: t.VerificationStatus, Tone: panel.StatusTone(t.VerificationStatus)}},
		Fields: []panel.Field{
			{Label: "Phone", Value: panel.OrDash(t.Phone)},
			{Label: "NIN", Value: panel.OrDash(t.NIN)},
			{Label: "Subjects", Value: panel.OrDash(t.Subjects.String()), Wide: true},
			{Label: "Experience", Value: panel.OrDash(t.Experience.String())},
			{Label: "Qualification", Value: panel.OrDash(t.Qualification)},
			{Label: "Assigned", Value: strconv.Itoa(t.AssignedCount)},
			{Label: "Completed", Value: strconv.Itoa(t.CompletedCount)},
			{Label: "Profile", Value: t.Completeness()},
		},
		CloseURL: "/teachers",
	}
	if t.IsSuspended {
		p.Badges = append(p.Badges, panel.Badge{Text: "Suspended", Tone: "danger"})
	}
	return p
}
