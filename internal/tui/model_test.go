package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/journey"
	"github.com/atypico/journey/internal/kv"
	"github.com/atypico/journey/internal/userstore"
)

func newTUI(t *testing.T) (Model, *userstore.Store) {
	t.Helper()
	ctx := context.Background()
	store := userstore.New(kv.NewMemory())
	m := journey.NewMachine(content.Default(), store)
	m.Mount(ctx)
	return New(ctx, m, store, "https://whatsapp.com/channel/test"), store
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestWalkthrough(t *testing.T) {
	m, store := newTUI(t)
	ctx := context.Background()
	assert.Contains(t, m.View(), "Você está fazendo o melhor que pode")

	m = press(t, m, "enter")
	require.Equal(t, journey.StepInitial, m.State().Step)

	// childAge: first option
	m = press(t, m, "enter")
	require.Equal(t, 1, m.State().Question)

	// concerns is multiple choice: enter without a mark is refused
	m = press(t, m, "enter")
	assert.Equal(t, 1, m.State().Question)
	assert.Contains(t, m.View(), "Escolha pelo menos uma opção")
	m = press(t, m, "down", "space", "enter")
	require.Equal(t, 2, m.State().Question)

	m = press(t, m, "down", "enter", "enter", "down", "down", "enter")
	require.Equal(t, journey.StepRegistration, m.State().Step)

	m = press(t, m, "Ana", "enter", "not-an-email", "enter", "11999998888", "enter")
	assert.Equal(t, journey.StepRegistration, m.State().Step)
	assert.NotEmpty(t, m.State().FieldErrors["email"])
	assert.Equal(t, 1, m.regField, "cursor jumps to the bad field")

	m.input.SetValue("")
	m = press(t, m, "ana@x.com", "enter", "enter")
	require.True(t, m.State().InviteOpen, m.View())
	assert.Contains(t, m.View(), "https://whatsapp.com/channel/test")

	data := store.Read(ctx)
	assert.Equal(t, "ana@x.com", data.Profile.Email)
	assert.Equal(t, "0-2 anos", data.InitialAnswers.ChildAge)
	assert.Equal(t, []string{"Pouco contato visual"}, data.InitialAnswers.Concerns)
	assert.Equal(t, "Não", data.InitialAnswers.FamilyHistory)
	assert.Equal(t, "Muito estruturada", data.InitialAnswers.RoutineLevel)
	assert.Equal(t, "Apenas observando", data.InitialAnswers.Relationship)

	m = press(t, m, "enter")
	require.Equal(t, journey.StepJourney, m.State().Step)

	m = press(t, m, "enter")
	assert.Contains(t, m.View(), "Escreva sua resposta")

	for day := 1; day <= 3; day++ {
		assert.Contains(t, m.View(), "Como foi o sono da criança hoje?")
		for i := 0; i < 5; i++ {
			m = press(t, m, "ok", "enter")
		}
	}
	require.Equal(t, journey.StepReport, m.State().Step)
	assert.Contains(t, m.View(), "Seu relatório está pronto")
	assert.NotNil(t, store.Read(ctx).Day3CompletedAt)

	m = press(t, m, "p")
	assert.Equal(t, journey.StepPremium, m.State().Step)
	assert.True(t, strings.Contains(m.View(), "Atypico Premium"))
	m = press(t, m, "b", "r")
	assert.Equal(t, journey.StepWelcome, m.State().Step)
	assert.False(t, store.HasProfile(ctx))
}
