package journey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/models"
	"github.com/atypico/journey/internal/services"
)

var (
	ErrSelectionRequired = errors.New("select at least one option")
	ErrAnswerRequired    = errors.New("answer must not be blank")
	ErrInvalidEvent      = errors.New("event not allowed here")
)

// Transition applies ev to m. On error the returned model is m itself, apart
// from FieldErrors after a rejected registration. It never touches storage.
func Transition(c *content.Content, m Model, ev Event) (Model, []Effect, error) {
	switch m.Step {
	case StepWelcome:
		if _, ok := ev.(Start); ok {
			next := m
			next.Step = StepInitial
			next.Question = 0
			next.Selection = nil
			next.Initial = models.InitialAnswers{}
			return next, nil, nil
		}
	case StepInitial:
		switch e := ev.(type) {
		case ToggleOption:
			return toggle(c, m, e.Option)
		case Next:
			return nextInitial(c, m)
		}
	case StepRegistration:
		switch e := ev.(type) {
		case SubmitRegistration:
			if m.InviteOpen {
				break
			}
			return register(m, e)
		case CloseInvite:
			if !m.InviteOpen {
				break
			}
			next := m
			next.InviteOpen = false
			next.Step = StepJourney
			next.Question = 0
			next.DayDraft = models.DailyAnswers{}
			return next, nil, nil
		}
	case StepJourney:
		if e, ok := ev.(Answer); ok {
			return answer(c, m, e.Text)
		}
	case StepReport:
		switch ev.(type) {
		case Reset:
			return NewModel(), []Effect{ClearStore{}}, nil
		case OpenPremium:
			next := m
			next.Step = StepPremium
			return next, nil, nil
		}
	case StepPremium:
		if _, ok := ev.(BackToReport); ok {
			next := m
			next.Step = StepReport
			return next, nil, nil
		}
	}
	return m, nil, fmt.Errorf("%w: %s during %s", ErrInvalidEvent, ev.Name(), m.Step)
}

func toggle(c *content.Content, m Model, opt string) (Model, []Effect, error) {
	q, ok := CurrentQuestion(c, m)
	if !ok || !q.HasOption(opt) {
		return m, nil, fmt.Errorf("%w: unknown option %q", ErrInvalidEvent, opt)
	}
	next := m
	if !q.Multiple() {
		next.Selection = []string{opt}
		return next, nil, nil
	}
	sel := make([]string, 0, len(m.Selection)+1)
	found := false
	for _, s := range m.Selection {
		if s == opt {
			found = true
			continue
		}
		sel = append(sel, s)
	}
	if !found {
		sel = append(sel, opt)
	}
	next.Selection = sel
	return next, nil, nil
}

func nextInitial(c *content.Content, m Model) (Model, []Effect, error) {
	q, ok := CurrentQuestion(c, m)
	if !ok {
		return m, nil, fmt.Errorf("%w: no question at %d", ErrInvalidEvent, m.Question)
	}
	if len(m.Selection) == 0 {
		return m, nil, ErrSelectionRequired
	}
	next := m
	next.Initial.Concerns = append([]string(nil), m.Initial.Concerns...)
	setInitial(&next.Initial, q.Key, m.Selection)
	next.Selection = nil
	if m.Question < len(c.InitialQuestions)-1 {
		next.Question++
		return next, nil, nil
	}
	next.Step = StepRegistration
	next.Question = 0
	next.FieldErrors = nil
	return next, nil, nil
}

// register commits the profile and the answers gathered so far, then opens
// the group invite. Closing it enters the journey.
func register(m Model, e SubmitRegistration) (Model, []Effect, error) {
	reg, err := services.ValidateRegistration(services.Registration{Name: e.Name, Email: e.Email, WhatsApp: e.WhatsApp})
	if err != nil {
		next := m
		var fe services.FieldErrors
		if errors.As(err, &fe) {
			next.FieldErrors = fe
		}
		return next, nil, err
	}
	next := m
	next.FieldErrors = nil
	next.Profile = models.UserProfile{Name: reg.Name, Email: reg.Email, WhatsApp: reg.WhatsApp}
	next.InviteOpen = true

	effects := []Effect{SaveProfile{Profile: next.Profile}}
	if !m.Initial.IsZero() {
		effects = append(effects, SaveInitialAnswers{Answers: m.Initial})
	}
	return next, effects, nil
}

func answer(c *content.Content, m Model, text string) (Model, []Effect, error) {
	q, ok := CurrentQuestion(c, m)
	if !ok {
		return m, nil, fmt.Errorf("%w: no question at %d", ErrInvalidEvent, m.Question)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return m, nil, ErrAnswerRequired
	}
	next := m
	setDaily(&next.DayDraft, q.Key, text)
	if m.Question < len(c.DailyQuestions)-1 {
		next.Question++
		return next, nil, nil
	}

	day := m.Day
	effects := []Effect{SaveJourneyDay{Day: day, Answers: next.DayDraft}}
	next.Journey.SetDay(day, next.DayDraft)
	next.Question = 0
	next.DayDraft = models.DailyAnswers{}
	if day < 3 {
		next.Day = day + 1
	} else {
		next.Step = StepReport
	}
	return next, effects, nil
}
