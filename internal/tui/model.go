// Package tui is a terminal presenter over the journey machine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atypico/journey/internal/journey"
	"github.com/atypico/journey/internal/report"
	"github.com/atypico/journey/internal/services"
	"github.com/atypico/journey/internal/userstore"
)

var regFields = []struct{ key, label, placeholder string }{
	{"name", "Nome", "Seu nome"},
	{"email", "E-mail", "voce@exemplo.com"},
	{"whatsapp", "WhatsApp", "(11) 99999-9999"},
}

type Model struct {
	ctx     context.Context
	machine *journey.Machine
	store   *userstore.Store
	channel string

	state    journey.Model
	cursor   int
	input    textinput.Model
	regField int
	reg      [3]string
	flash    string
	quitting bool
}

// New wraps an already mounted machine. channelURL is shown on the group invite.
func New(ctx context.Context, m *journey.Machine, store *userstore.Store, channelURL string) Model {
	ti := textinput.New()
	ti.CharLimit = 1000
	ti.Width = 60
	t := Model{ctx: ctx, machine: m, store: store, channel: channelURL, state: m.Model(), input: ti}
	t.syncInput()
	return t
}

// Run blocks until the user quits.
func Run(ctx context.Context, m *journey.Machine, store *userstore.Store, channelURL string) error {
	_, err := tea.NewProgram(New(ctx, m, store, channelURL), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (t Model) Init() tea.Cmd { return textinput.Blink }

func (t Model) State() journey.Model { return t.state }

func (t Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, cmd
	}
	switch key.String() {
	case "ctrl+c", "esc":
		t.quitting = true
		return t, tea.Quit
	}

	switch t.state.Step {
	case journey.StepWelcome:
		if key.String() == "enter" {
			t.dispatch(journey.Start{})
		}
	case journey.StepInitial:
		return t.updateInitial(key)
	case journey.StepRegistration:
		return t.updateRegistration(key)
	case journey.StepJourney:
		if key.String() == "enter" {
			t.dispatch(journey.Answer{Text: t.input.Value()})
			return t, nil
		}
		return t.passToInput(key)
	case journey.StepReport:
		switch key.String() {
		case "p":
			t.dispatch(journey.OpenPremium{})
		case "r":
			t.dispatch(journey.Reset{})
		case "q":
			t.quitting = true
			return t, tea.Quit
		}
	case journey.StepPremium:
		switch key.String() {
		case "b", "enter":
			t.dispatch(journey.BackToReport{})
		case "q":
			t.quitting = true
			return t, tea.Quit
		}
	}
	return t, nil
}

func (t Model) updateInitial(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q, ok := journey.CurrentQuestion(t.machine.Content(), t.state)
	if !ok {
		return t, nil
	}
	switch key.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(q.Options)-1 {
			t.cursor++
		}
	case " ", "x":
		t.dispatch(journey.ToggleOption{Option: q.Options[t.cursor]})
	case "enter":
		// single choice: enter picks the highlighted option and moves on
		if !q.Multiple() && !t.state.Selected(q.Options[t.cursor]) {
			if !t.dispatch(journey.ToggleOption{Option: q.Options[t.cursor]}) {
				return t, nil
			}
		}
		t.dispatch(journey.Next{})
	}
	return t, nil
}

func (t Model) updateRegistration(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if t.state.InviteOpen {
		if key.String() == "enter" {
			t.dispatch(journey.CloseInvite{})
		}
		return t, nil
	}
	switch key.String() {
	case "tab", "down":
		t.reg[t.regField] = t.input.Value()
		t.regField = (t.regField + 1) % len(regFields)
		t.syncInput()
		return t, nil
	case "shift+tab", "up":
		t.reg[t.regField] = t.input.Value()
		t.regField = (t.regField + len(regFields) - 1) % len(regFields)
		t.syncInput()
		return t, nil
	case "enter":
		t.reg[t.regField] = t.input.Value()
		if t.regField < len(regFields)-1 {
			t.regField++
			t.syncInput()
			return t, nil
		}
		t.dispatch(journey.SubmitRegistration{Name: t.reg[0], Email: t.reg[1], WhatsApp: t.reg[2]})
		return t, nil
	}
	return t.passToInput(key)
}

func (t Model) passToInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(key)
	return t, cmd
}

// dispatch applies ev and reports whether the machine accepted it.
func (t *Model) dispatch(ev journey.Event) bool {
	prev := t.state
	next, err := t.machine.Dispatch(t.ctx, ev)
	t.state = next
	t.flash = ""
	if err != nil {
		t.flash = flashFor(err)
		if next.Step == journey.StepRegistration && len(next.FieldErrors) > 0 {
			t.regField = firstBadField(next.FieldErrors)
			t.syncInput()
		}
		return false
	}
	if prev.Step != next.Step || prev.Question != next.Question || prev.Day != next.Day || prev.InviteOpen != next.InviteOpen {
		t.cursor = 0
		if next.Step == journey.StepRegistration && !next.InviteOpen {
			t.regField = 0
		}
		t.input.SetValue("")
		t.syncInput()
	}
	return true
}

func (t *Model) syncInput() {
	switch {
	case t.state.Step == journey.StepRegistration && !t.state.InviteOpen:
		f := regFields[t.regField]
		t.input.Placeholder = f.placeholder
		t.input.SetValue(t.reg[t.regField])
		t.input.Focus()
	case t.state.Step == journey.StepJourney:
		if q, ok := journey.CurrentQuestion(t.machine.Content(), t.state); ok {
			t.input.Placeholder = q.Placeholder
		}
		t.input.Focus()
	default:
		t.input.Blur()
	}
}

func firstBadField(fe services.FieldErrors) int {
	for i, f := range regFields {
		if _, bad := fe[f.key]; bad {
			return i
		}
	}
	return 0
}

func flashFor(err error) string {
	var fe services.FieldErrors
	switch {
	case errors.Is(err, journey.ErrSelectionRequired):
		return "Escolha pelo menos uma opção para continuar."
	case errors.Is(err, journey.ErrAnswerRequired):
		return "Escreva sua resposta para continuar."
	case errors.As(err, &fe):
		return "Confira os campos destacados."
	}
	return err.Error()
}

func (t Model) View() string {
	if t.quitting {
		return "Até logo! 💜\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Atypico") + "\n\n")

	c := t.machine.Content()
	switch t.state.Step {
	case journey.StepWelcome:
		b.WriteString(questionStyle.Render("Você está fazendo o melhor que pode") + "\n")
		b.WriteString("E isso é um ótimo começo. Estamos aqui para te acompanhar nessa jornada de compreensão e amor.\n\n")
		b.WriteString(hintStyle.Render("enter: começar agora"))

	case journey.StepInitial:
		q, _ := journey.CurrentQuestion(c, t.state)
		pos, total := journey.Progress(c, t.state)
		b.WriteString(hintStyle.Render(fmt.Sprintf("Conhecendo você • %d de %d", pos, total)) + "\n")
		b.WriteString(questionStyle.Render(q.Question) + "\n\n")
		for i, opt := range q.Options {
			mark := "[ ]"
			if t.state.Selected(opt) {
				mark = "[x]"
			}
			line := mark + " " + opt
			if i == t.cursor {
				line = cursorStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		hint := "↑/↓: mover • enter: escolher"
		if q.Multiple() {
			hint = "↑/↓: mover • espaço: marcar • enter: próxima"
		}
		b.WriteString("\n" + hintStyle.Render(hint))

	case journey.StepRegistration:
		if t.state.InviteOpen {
			b.WriteString(cardStyle.Render("Participe do nosso grupo 💜\n"+t.channelHint()) + "\n\n")
			b.WriteString(hintStyle.Render("enter: continuar para a jornada"))
			break
		}
		b.WriteString(questionStyle.Render("Quase lá!") + "\n\n")
		for i, f := range regFields {
			val := t.reg[i]
			if i == t.regField {
				val = t.input.View()
			}
			b.WriteString(fmt.Sprintf("%-9s %s\n", f.label, val))
			if msg, bad := t.state.FieldErrors[f.key]; bad {
				b.WriteString(errorStyle.Render("          "+msg) + "\n")
			}
		}
		b.WriteString("\n" + hintStyle.Render("tab: próximo campo • enter: confirmar"))

	case journey.StepJourney:
		for day := 1; day <= 3; day++ {
			label := fmt.Sprintf(" Dia %d ", day)
			switch {
			case day == t.state.Day:
				b.WriteString(cursorStyle.Render(label))
			case day < t.state.Day:
				b.WriteString(doneStyle.Render(label))
			default:
				b.WriteString(hintStyle.Render(label))
			}
		}
		q, _ := journey.CurrentQuestion(c, t.state)
		pos, total := journey.Progress(c, t.state)
		b.WriteString("\n" + hintStyle.Render(fmt.Sprintf("%d de %d", pos, total)) + "\n")
		b.WriteString(questionStyle.Render(q.Question) + "\n\n")
		b.WriteString(t.input.View() + "\n\n")
		b.WriteString(hintStyle.Render("enter: próxima"))

	case journey.StepReport:
		r := report.Build(t.store.Read(t.ctx), c)
		b.WriteString(questionStyle.Render("Seu relatório está pronto") + "\n\n")
		b.WriteString("Padrões observados\n")
		for _, p := range r.Patterns {
			b.WriteString("  • " + p + "\n")
		}
		b.WriteString("\nRecomendações práticas\n")
		for i, rec := range r.Recommendations {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, rec))
		}
		b.WriteString("\n" + cardStyle.Render(r.ProfessionalAdvice) + "\n\n")
		b.WriteString(hintStyle.Render("p: premium • r: nova jornada • q: sair"))

	case journey.StepPremium:
		b.WriteString(questionStyle.Render(c.Premium.Title) + "\n")
		b.WriteString(c.Premium.Subtitle + "\n\n")
		for _, f := range c.Premium.Features {
			b.WriteString("  ✓ " + f + "\n")
		}
		b.WriteString("\n" + hintStyle.Render("b: voltar ao relatório • q: sair"))
	}

	if t.flash != "" {
		b.WriteString("\n\n" + errorStyle.Render(t.flash))
	}
	return b.String() + "\n"
}

func (t Model) channelHint() string {
	if t.channel == "" {
		return "Entre no canal do WhatsApp da Atypico para receber conteúdos e apoio."
	}
	return "Entre no canal do WhatsApp da Atypico:\n" + t.channel
}
