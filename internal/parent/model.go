package parent

import (
	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/panel"
)

const StatusPending = "Pending"

type Parent struct {
	ID                 api.ID `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	NIN                string `json:"nin"`
	IsPremium          bool   `json:"isPremium"`
	VerificationStatus string `json:"verificationStatus"`
}

func (p Parent) Tier() string {
	if p.IsPremium {
		return "Premium Parent"
	}
	return "Standard Parent"
}

// Panel describes the read-only detail panel for p.
func Panel(p Parent) *panel.Panel {
	return &panel.Panel{
		Title:    p.Name + "'s Details",
		Initial:  panel.Initial(p.Name),
		Subtitle: p.Tier(),
		Badges:   []panel.Badge{{Text: p.VerificationStatus, Tone: panel.StatusTone(p.VerificationStatus)}},
		Fields: []panel.Field{
			{Label: "Email", Value: panel.OrDash(p.Email), Wide: true},
			{Label: "Phone", Value: panel.OrDash(p.Phone)},
			{Label: "NIN", Value: panel.OrDash(p.NIN)},
			{Label: "Verification Status", Value: panel.OrDash(p.VerificationStatus)},
		},
		CloseURL: "/parents",
	}
}
