package request

import (
	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/panel"
)

const (
	StatusPending           = "Pending"
	StatusConfirmingPayment = "Confirming Payment"
	StatusMatched           = "Matched"
)

type TutorRequest struct {
	ID                  api.ID       `json:"id"`
	ParentName          string       `json:"parentName"`
	ParentEmail         string       `json:"parentEmail"`
	StudentName         string       `json:"studentName"`
	StudentGrade        string       `json:"studentGrade"`
	Subjects            api.Subjects `json:"subjects"`
	Schedule            string       `json:"schedule"`
	Duration            api.Text     `json:"duration"`
	Location            string       `json:"location"`
	LearningGoals       string       `json:"learningGoals"`
	Status              string       `json:"status"`
	AssignedTeacherName string       `json:"assignedTeacherName"`
	CreatedAt           string       `json:"createdAt"`
}

func (r TutorRequest) CanMatch() bool { return r.Status == StatusPending }

func (r TutorRequest) CanConfirmPayment() bool { return r.Status == StatusConfirmingPayment }

func (r TutorRequest) IsMatched() bool { return r.Status == StatusMatched }

// Panel describes the read-only detail panel for r.
func Panel(r TutorRequest) *panel.Panel {
	p := &panel.Panel{
		Title:    "Request #" + r.ID.String(),
		Initial:  panel.Initial(r.StudentName),
		Subtitle: r.StudentName + " · " + r.StudentGrade,
		Badges:   []panel.Badge{{Text: r.Status, Tone: panel.StatusTone(r.Status)}},
		Fields: []panel.Field{
			{Label: "Subjects", Value: panel.OrDash(r.Subjects.String()), Wide: true},
			{Label: "Schedule", Value: panel.OrDash(r.Schedule)},
			{Label: "Duration", Value: panel.OrDash(r.Duration.String())},
			{Label: "Location", Value: panel.OrDash(r.Location), Wide: true},
			{Label: "Goals", Value: panel.OrDash(r.LearningGoals), Wide: true},
			{Label: "Contact Parent", Value: r.ParentName + " <" + r.ParentEmail + ">", Wide: true},
			{Label: "Created", Value: panel.OrDash(r.CreatedAt)},
		},
		CloseURL: "/requests",
	}
	if r.IsMatched() {
		p.Highlight = &panel.Field{Label: "Matched Tutor", Value: panel.OrDash(r.AssignedTeacherName), Wide: true}
	}
	return p
}
