package journey

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/models"
	"github.com/atypico/journey/internal/services"
)

func step(t *testing.T, c *content.Content, m Model, ev Event) (Model, []Effect) {
	t.Helper()
	next, effects, err := Transition(c, m, ev)
	require.NoError(t, err, "%s during %s", ev.Name(), m.Step)
	return next, effects
}

func TestToggleSingleReplaces(t *testing.T) {
	c := content.Default()
	m, _ := step(t, c, NewModel(), Start{})
	m, _ = step(t, c, m, ToggleOption{Option: "0-2 anos"})
	m, _ = step(t, c, m, ToggleOption{Option: "3-5 anos"})
	assert.Equal(t, []string{"3-5 anos"}, m.Selection)
}

func TestToggleMultipleFlips(t *testing.T) {
	c := content.Default()
	m, _ := step(t, c, NewModel(), Start{})
	m, _ = step(t, c, m, ToggleOption{Option: "0-2 anos"})
	m, _ = step(t, c, m, Next{})
	require.Equal(t, 1, m.Question)

	m, _ = step(t, c, m, ToggleOption{Option: "Pouco contato visual"})
	m, _ = step(t, c, m, ToggleOption{Option: "Movimentos repetitivos"})
	before := m
	m, _ = step(t, c, m, ToggleOption{Option: "Pouco contato visual"})
	assert.Equal(t, []string{"Movimentos repetitivos"}, m.Selection)
	assert.Equal(t, []string{"Pouco contato visual", "Movimentos repetitivos"}, before.Selection, "input model mutated")
}

func TestToggleUnknownOption(t *testing.T) {
	c := content.Default()
	m, _ := step(t, c, NewModel(), Start{})
	_, _, err := Transition(c, m, ToggleOption{Option: "nope"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNextRequiresSelection(t *testing.T) {
	c := content.Default()
	m, _ := step(t, c, NewModel(), Start{})
	got, effects, err := Transition(c, m, Next{})
	assert.ErrorIs(t, err, ErrSelectionRequired)
	assert.Empty(t, effects)
	assert.Equal(t, m, got)
}

func TestAnswerRequiresText(t *testing.T) {
	c := content.Default()
	m := Model{Step: StepJourney, Day: 1}
	got, _, err := Transition(c, m, Answer{Text: "  \n "})
	assert.ErrorIs(t, err, ErrAnswerRequired)
	assert.Equal(t, m, got)
}

func TestInvalidEvents(t *testing.T) {
	c := content.Default()
	cases := []struct {
		m  Model
		ev Event
	}{
		{NewModel(), Next{}},
		{NewModel(), Reset{}},
		{Model{Step: StepJourney, Day: 1}, Start{}},
		{Model{Step: StepRegistration, Day: 1}, CloseInvite{}},
		{Model{Step: StepRegistration, Day: 1, InviteOpen: true}, SubmitRegistration{Name: "Ana"}},
		{Model{Step: StepPremium, Day: 3}, Reset{}},
		{Model{Step: StepReport, Day: 3}, BackToReport{}},
	}
	for _, tc := range cases {
		got, effects, err := Transition(c, tc.m, tc.ev)
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("%s during %s: want ErrInvalidEvent, got %v", tc.ev.Name(), tc.m.Step, err)
		}
		assert.Empty(t, effects)
		assert.Equal(t, tc.m, got)
	}
}

func TestRegistrationRejectsBadEmail(t *testing.T) {
	c := content.Default()
	m := Model{Step: StepRegistration, Day: 1}
	got, effects, err := Transition(c, m, SubmitRegistration{Name: "Ana", Email: "not-an-email", WhatsApp: "11999998888"})
	require.Error(t, err)
	var fe services.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.NotEmpty(t, got.FieldErrors["email"])
	assert.Equal(t, StepRegistration, got.Step)
	assert.False(t, got.InviteOpen)
	assert.Empty(t, effects)
}

func TestRegistrationEffects(t *testing.T) {
	c := content.Default()
	m := Model{Step: StepRegistration, Day: 1, Initial: models.InitialAnswers{ChildAge: "0-2 anos"}}
	got, effects := step(t, c, m, SubmitRegistration{Name: " Ana ", Email: "ANA@x.com", WhatsApp: "11999998888"})
	assert.True(t, got.InviteOpen)
	assert.Equal(t, StepRegistration, got.Step)
	require.Len(t, effects, 2)
	p := effects[0].(SaveProfile).Profile
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "(11) 99999-8888", p.WhatsApp)
	assert.Equal(t, "0-2 anos", effects[1].(SaveInitialAnswers).Answers.ChildAge)

	got, effects = step(t, c, got, CloseInvite{})
	assert.Equal(t, StepJourney, got.Step)
	assert.False(t, got.InviteOpen)
	assert.Empty(t, effects)

	// without answers in memory only the profile is saved
	_, effects = step(t, c, Model{Step: StepRegistration, Day: 1}, SubmitRegistration{Name: "Ana", Email: "ana@x.com", WhatsApp: "1199998888"})
	assert.Len(t, effects, 1)
}

func TestJourneyDayCompletion(t *testing.T) {
	c := content.Default()
	m := Model{Step: StepJourney, Day: 1}
	var effects []Effect
	for i := 0; i < 5; i++ {
		m, effects = step(t, c, m, Answer{Text: " a "})
		if i < 4 {
			assert.Empty(t, effects)
			assert.Equal(t, i+1, m.Question)
		}
	}
	require.Len(t, effects, 1)
	save := effects[0].(SaveJourneyDay)
	assert.Equal(t, 1, save.Day)
	assert.True(t, save.Answers.Complete())
	assert.Equal(t, "a", save.Answers.Sleep)
	assert.Equal(t, 2, m.Day)
	assert.Equal(t, 0, m.Question)
	assert.Equal(t, models.DailyAnswers{}, m.DayDraft)
	assert.NotNil(t, m.Journey.Day1)

	m.Day = 3
	for i := 0; i < 5; i++ {
		m, effects = step(t, c, m, Answer{Text: "b"})
	}
	assert.Equal(t, StepReport, m.Step)
	assert.Equal(t, 3, effects[0].(SaveJourneyDay).Day)
}

func TestReportNavigationAndReset(t *testing.T) {
	c := content.Default()
	m := Model{Step: StepReport, Day: 3, Question: 0, Profile: models.UserProfile{Email: "ana@x.com"}}
	m, _ = step(t, c, m, OpenPremium{})
	assert.Equal(t, StepPremium, m.Step)
	m, _ = step(t, c, m, BackToReport{})
	assert.Equal(t, StepReport, m.Step)

	m, effects := step(t, c, m, Reset{})
	assert.Equal(t, NewModel(), m)
	assert.Equal(t, []Effect{ClearStore{}}, effects)
}

func TestResume(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	withProfile := models.UserData{
		Profile:        models.UserProfile{Name: "Ana", Email: "ana@x.com"},
		InitialAnswers: models.InitialAnswers{ChildAge: "0-2 anos"},
		CurrentDay:     2,
	}

	m := Resume(withProfile)
	assert.Equal(t, StepJourney, m.Step)
	assert.Equal(t, 2, m.Day)

	done := withProfile
	done.CurrentDay = 3
	done.Day3CompletedAt = &now
	assert.Equal(t, StepReport, Resume(done).Step)

	noAnswers := withProfile
	noAnswers.InitialAnswers = models.InitialAnswers{}
	assert.Equal(t, StepWelcome, Resume(noAnswers).Step)

	assert.Equal(t, NewModel(), Resume(models.NewUserData()))
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent("register", Fields{Name: "Ana", Email: "a@x.com", WhatsApp: "1"})
	require.NoError(t, err)
	assert.Equal(t, SubmitRegistration{Name: "Ana", Email: "a@x.com", WhatsApp: "1"}, ev)

	for _, name := range []string{"start", "toggle", "next", "close-invite", "answer", "reset", "premium", "back-to-report"} {
		ev, err := ParseEvent(name, Fields{})
		require.NoError(t, err)
		assert.Equal(t, name, ev.Name())
	}

	_, err = ParseEvent("fly", Fields{})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestProgress(t *testing.T) {
	c := content.Default()
	pos, total := Progress(c, Model{Step: StepInitial, Question: 2})
	assert.Equal(t, 3, pos)
	assert.Equal(t, 5, total)
	pos, total = Progress(c, Model{Step: StepReport})
	assert.Zero(t, pos)
	assert.Zero(t, total)
}
