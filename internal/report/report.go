// Package report assembles the end-of-journey summary shown after day 3.
// The insight text is static copy; only the observed answers vary per user.
package report

import (
	"time"

	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/models"
)

type Item struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Day struct {
	Day         int        `json:"day"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Items       []Item     `json:"items"`
}

type Report struct {
	Name               string   `json:"name"`
	ChildAge           string   `json:"childAge,omitempty"`
	Concerns           []string `json:"concerns,omitempty"`
	Days               []Day    `json:"days"`
	Patterns           []string `json:"patterns"`
	Recommendations    []string `json:"recommendations"`
	ProfessionalAdvice string   `json:"professionalAdvice"`
	Complete           bool     `json:"complete"`
}

// Build pairs every recorded day's answers with the daily prompts.
// Days without answers are left out.
func Build(data models.UserData, c *content.Content) Report {
	r := Report{
		Name:               data.Profile.Name,
		ChildAge:           data.InitialAnswers.ChildAge,
		Concerns:           data.InitialAnswers.Concerns,
		Patterns:           c.Report.Patterns,
		Recommendations:    c.Report.Recommendations,
		ProfessionalAdvice: c.Report.ProfessionalAdvice,
	}
	for day := 1; day <= 3; day++ {
		a := data.JourneyData.Day(day)
		if a == nil {
			continue
		}
		values := map[string]string{
			"sleep":         a.Sleep,
			"reactions":     a.Reactions,
			"communication": a.Communication,
			"crises":        a.Crises,
			"happyMoment":   a.HappyMoment,
		}
		d := Day{Day: day, CompletedAt: data.CompletedAt(day)}
		for _, q := range c.DailyQuestions {
			d.Items = append(d.Items, Item{Question: q.Question, Answer: values[q.Key]})
		}
		r.Days = append(r.Days, d)
	}
	r.Complete = len(r.Days) == 3
	return r
}
