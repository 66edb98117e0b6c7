package activity

import (
	"github.com/suxessedu/suxess-web/internal/api"
)

// Entry is one row of the admin activity log.
type Entry struct {
	ID        api.ID `json:"id"`
	Timestamp string `json:"timestamp"`
	UserName  string `json:"userName"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// LessonEntry is one consolidated lesson log row.
type LessonEntry struct {
	ID          api.ID  `json:"id"`
	Date        string  `json:"date"`
	TeacherName string  `json:"teacherName"`
	Subject     string  `json:"subject"`
	Duration    float64 `json:"duration"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
}

// DateRange bounds the activity log. Either end may be empty.
type DateRange struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

func (d DateRange) Filters() map[string]string {
	return map[string]string{"start_date": d.StartDate, "end_date": d.EndDate}
}

// PageHours sums durations over the loaded page only, not the whole log.
func PageHours(logs []LessonEntry) float64 {
	var total float64
	for _, l := range logs {
		total += l.Duration
	}
	return total
}
