// Package journey sequences the user through the screens of the three-day
// observation flow. Transition is a pure function from (model, event) to
// (model, effects); Machine runs the effects against the user store.
package journey

import (
	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/models"
	"github.com/atypico/journey/internal/services"
)

type Step string

const (
	StepWelcome      Step = "welcome"
	StepInitial      Step = "initial-questionnaire"
	StepRegistration Step = "registration"
	StepJourney      Step = "journey"
	StepReport       Step = "report"
	StepPremium      Step = "premium"
)

// Model is everything the presenters need to draw the current screen.
// Answers held here but not yet in an effect are lost on restart.
type Model struct {
	Step     Step `json:"step"`
	Day      int  `json:"day"`
	Question int  `json:"question"`

	Initial   models.InitialAnswers `json:"initialAnswers"`
	Selection []string              `json:"selection,omitempty"`
	DayDraft  models.DailyAnswers   `json:"dayDraft"`
	Journey   models.JourneyData    `json:"journeyData"`

	Profile     models.UserProfile   `json:"profile"`
	InviteOpen  bool                 `json:"inviteOpen"`
	FieldErrors services.FieldErrors `json:"fieldErrors,omitempty"`
}

// NewModel is the state of a first visit.
func NewModel() Model {
	return Model{Step: StepWelcome, Day: 1}
}

// Resume picks the starting screen from the persisted aggregate: a user with
// a profile and initial answers continues the journey, or sees the report
// once day 3 is done. Everyone else starts over at welcome.
func Resume(data models.UserData) Model {
	m := NewModel()
	if data.CurrentDay >= 1 && data.CurrentDay <= 3 {
		m.Day = data.CurrentDay
	}
	if !data.HasProfile() || data.InitialAnswers.IsZero() {
		return m
	}
	m.Profile = data.Profile
	m.Initial = data.InitialAnswers
	m.Journey = data.JourneyData
	if data.Day3CompletedAt == nil {
		m.Step = StepJourney
	} else {
		m.Step = StepReport
	}
	return m
}

// Selected reports whether opt is part of the in-progress selection.
func (m Model) Selected(opt string) bool {
	for _, s := range m.Selection {
		if s == opt {
			return true
		}
	}
	return false
}

// CurrentQuestion returns the prompt on screen, if the step has one.
func CurrentQuestion(c *content.Content, m Model) (content.Question, bool) {
	var qs []content.Question
	switch m.Step {
	case StepInitial:
		qs = c.InitialQuestions
	case StepJourney:
		qs = c.DailyQuestions
	default:
		return content.Question{}, false
	}
	if m.Question < 0 || m.Question >= len(qs) {
		return content.Question{}, false
	}
	return qs[m.Question], true
}

// Progress is the 1-based position within the current questionnaire and its length.
func Progress(c *content.Content, m Model) (pos, total int) {
	switch m.Step {
	case StepInitial:
		return m.Question + 1, len(c.InitialQuestions)
	case StepJourney:
		return m.Question + 1, len(c.DailyQuestions)
	}
	return 0, 0
}

func setInitial(a *models.InitialAnswers, key string, sel []string) {
	first := ""
	if len(sel) > 0 {
		first = sel[0]
	}
	switch key {
	case "childAge":
		a.ChildAge = first
	case "concerns":
		a.Concerns = append([]string(nil), sel...)
	case "familyHistory":
		a.FamilyHistory = first
	case "routineLevel":
		a.RoutineLevel = first
	case "relationship":
		a.Relationship = first
	}
}

func setDaily(a *models.DailyAnswers, key, text string) {
	switch key {
	case "sleep":
		a.Sleep = text
	case "reactions":
		a.Reactions = text
	case "communication":
		a.Communication = text
	case "crises":
		a.Crises = text
	case "happyMoment":
		a.HappyMoment = text
	}
}
