package dashboard

import (
	"github.com/suxessedu/suxess-web/internal/activity"
	"github.com/suxessedu/suxess-web/internal/request"
)

type Stats struct {
	Parents  int `json:"parents"`
	Teachers int `json:"teachers"`
	Pending  int `json:"pending"`
	Matched  int `json:"matched"`
}

type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Bar is one chart column, scaled against the largest value.
type Bar struct {
	Label   string
	Value   int
	Percent int
}

// Bars pairs labels with values. Extra entries on either side are dropped.
func (c ChartData) Bars() []Bar {
	n := min(len(c.Labels), len(c.Data))
	peak := 0
	for _, v := range c.Data[:n] {
		peak = max(peak, v)
	}
	bars := make([]Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, Bar{Label: c.Labels[i], Value: c.Data[i], Percent: scale(c.Data[i], peak)})
	}
	return bars
}

type Overview struct {
	Stats          Stats
	Activity       []activity.Entry
	RecentRequests []request.TutorRequest
	Chart          ChartData
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

type TeacherCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Analytics struct {
	TopSubjects []SubjectCount `json:"topSubjects"`
	TopTeachers []TeacherCount `json:"topTeachers"`
}

func (a Analytics) SubjectBars() []Bar {
	peak := 0
	for _, s := range a.TopSubjects {
		peak = max(peak, s.Count)
	}
	bars := make([]Bar, 0, len(a.TopSubjects))
	for _, s := range a.TopSubjects {
		bars = append(bars, Bar{Label: s.Subject, Value: s.Count, Percent: scale(s.Count, peak)})
	}
	return bars
}

func (a Analytics) TeacherBars() []Bar {
	peak := 0
	for _, t := range a.TopTeachers {
		peak = max(peak, t.Count)
	}
	bars := make([]Bar, 0, len(a.TopTeachers))
	for _, t := range a.TopTeachers {
		bars = append(bars, Bar{Label: t.Name, Value: t.Count, Percent: scale(t.Count, peak)})
	}
	return bars
}

func scale(value, peak int) int {
	if peak <= 0 || value <= 0 {
		return 0
	}
	return value * 100 / peak
}
