package journey

import (
	"fmt"

	"github.com/atypico/journey/internal/models"
)

// Event is a user gesture.
type Event interface {
	Name() string
}

type Start struct{}

type ToggleOption struct{ Option string }

type Next struct{}

type SubmitRegistration struct {
	Name     string
	Email    string
	WhatsApp string
}

type CloseInvite struct{}

type Answer struct{ Text string }

type Reset struct{}

type OpenPremium struct{}

type BackToReport struct{}

func (Start) Name() string              { return "start" }
func (ToggleOption) Name() string       { return "toggle" }
func (Next) Name() string               { return "next" }
func (SubmitRegistration) Name() string { return "register" }
func (CloseInvite) Name() string        { return "close-invite" }
func (Answer) Name() string             { return "answer" }
func (Reset) Name() string              { return "reset" }
func (OpenPremium) Name() string        { return "premium" }
func (BackToReport) Name() string       { return "back-to-report" }

// Fields carries the free-form values an event may need when it arrives
// from a form or JSON body.
type Fields struct {
	Option   string `json:"option"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Text     string `json:"text"`
}

// ParseEvent builds the event called name.
func ParseEvent(name string, f Fields) (Event, error) {
	switch name {
	case "start":
		return Start{}, nil
	case "toggle":
		return ToggleOption{Option: f.Option}, nil
	case "next":
		return Next{}, nil
	case "register":
		return SubmitRegistration{Name: f.Name, Email: f.Email, WhatsApp: f.WhatsApp}, nil
	case "close-invite":
		return CloseInvite{}, nil
	case "answer":
		return Answer{Text: f.Text}, nil
	case "reset":
		return Reset{}, nil
	case "premium":
		return OpenPremium{}, nil
	case "back-to-report":
		return BackToReport{}, nil
	}
	return nil, fmt.Errorf("%w: unknown event %q", ErrInvalidEvent, name)
}

// Effect is a write the Machine must perform after a transition.
type Effect interface {
	effect()
}

type SaveProfile struct{ Profile models.UserProfile }

type SaveInitialAnswers struct{ Answers models.InitialAnswers }

type SaveJourneyDay struct {
	Day     int
	Answers models.DailyAnswers
}

type ClearStore struct{}

func (SaveProfile) effect()        {}
func (SaveInitialAnswers) effect() {}
func (SaveJourneyDay) effect()     {}
func (ClearStore) effect()         {}
