package journey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/atypico/journey/internal/clock"
	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/kv"
	"github.com/atypico/journey/internal/models"
	"github.com/atypico/journey/internal/reminders"
	"github.com/atypico/journey/internal/userstore"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	mem   *kv.Memory
	clk   *clock.Fixed
	store *userstore.Store
	sched *reminders.Scheduler
}

func newFixture() *fixture {
	f := &fixture{mem: kv.NewMemory(), clk: &clock.Fixed{T: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}}
	f.sched = reminders.New(f.mem, reminders.WithClock(f.clk))
	f.store = userstore.New(f.mem, userstore.WithClock(f.clk), userstore.WithDayOneHandler(f.sched))
	return f
}

// session is a fresh page load over the same storage.
func (f *fixture) session(ctx context.Context) *Machine {
	m := NewMachine(content.Default(), f.store, WithSweeper(f.sched))
	m.Mount(ctx)
	return m
}

func must(t *testing.T, m *Machine, ev Event) Model {
	t.Helper()
	got, err := m.Dispatch(context.Background(), ev)
	require.NoError(t, err, ev.Name())
	return got
}

func completeInitial(t *testing.T, m *Machine) {
	t.Helper()
	must(t, m, Start{})
	for _, opt := range []string{"0-2 anos", "Pouco contato visual", "Não", "Muito estruturada", "Apenas observando"} {
		must(t, m, ToggleOption{Option: opt})
		must(t, m, Next{})
	}
}

func registerAna(t *testing.T, m *Machine) {
	t.Helper()
	must(t, m, SubmitRegistration{Name: "Ana", Email: "ana@x.com", WhatsApp: "11999998888"})
	must(t, m, CloseInvite{})
}

func completeDay(t *testing.T, m *Machine) Model {
	t.Helper()
	var got Model
	for i := 0; i < 5; i++ {
		got = must(t, m, Answer{Text: "resposta"})
	}
	return got
}

func TestRegistrationScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.session(ctx)
	assert.Equal(t, StepWelcome, m.Model().Step)

	completeInitial(t, m)
	assert.Equal(t, StepRegistration, m.Model().Step)
	assert.Equal(t, "", f.store.Read(ctx).InitialAnswers.ChildAge, "answers stay in memory until registration")

	got := must(t, m, SubmitRegistration{Name: "Ana", Email: "ana@x.com", WhatsApp: "11999998888"})
	assert.True(t, got.InviteOpen)

	data := f.store.Read(ctx)
	assert.Equal(t, "ana@x.com", data.Profile.Email)
	assert.Equal(t, "0-2 anos", data.InitialAnswers.ChildAge)
	assert.Equal(t, []string{"Pouco contato visual"}, data.InitialAnswers.Concerns)
	assert.Equal(t, "Apenas observando", data.InitialAnswers.Relationship)

	resumed := f.session(ctx).Model()
	assert.Equal(t, StepJourney, resumed.Step)
	assert.Equal(t, 1, resumed.Day)
}

func TestBadEmailScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.session(ctx)
	completeInitial(t, m)

	got, err := m.Dispatch(ctx, SubmitRegistration{Name: "Ana", Email: "not-an-email", WhatsApp: "11999998888"})
	require.Error(t, err)
	assert.NotEmpty(t, got.FieldErrors["email"])
	assert.Equal(t, StepRegistration, m.Model().Step)
	assert.False(t, f.store.HasProfile(ctx))
}

func TestFullJourneyScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.session(ctx)
	completeInitial(t, m)
	registerAna(t, m)

	got := completeDay(t, m)
	assert.Equal(t, 2, got.Day)
	assert.Len(t, f.sched.Load(ctx), 2, "day 1 schedules reminders")

	f.clk.Advance(24 * time.Hour)
	m = f.session(ctx)
	assert.Equal(t, StepJourney, m.Model().Step)
	assert.Equal(t, 2, m.Model().Day)
	recs := f.sched.Load(ctx)
	assert.True(t, recs[0].Sent, "mount sweeps the due day-2 reminder")
	assert.False(t, recs[1].Sent)

	completeDay(t, m)
	got = completeDay(t, m)
	assert.Equal(t, StepReport, got.Step)
	assert.NotNil(t, f.store.Read(ctx).Day3CompletedAt)

	resumed := f.session(ctx).Model()
	assert.Equal(t, StepReport, resumed.Step)
	assert.NotNil(t, resumed.Journey.Day3)

	st := f.store.Stats(ctx)
	assert.Equal(t, 1, st.CompletedJourney)
}

func TestResetScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.session(ctx)
	completeInitial(t, m)
	registerAna(t, m)
	for d := 0; d < 3; d++ {
		completeDay(t, m)
	}

	got := must(t, m, Reset{})
	assert.Equal(t, NewModel(), got)
	assert.Equal(t, models.NewUserData(), f.store.Read(ctx))
	assert.Equal(t, StepWelcome, f.session(ctx).Model().Step)
}

func TestStorageFailureDoesNotBlockFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.mem.SetFailing(true)
	m := f.session(ctx)
	completeInitial(t, m)
	registerAna(t, m)
	got := completeDay(t, m)
	assert.Equal(t, StepJourney, got.Step)
	assert.Equal(t, 2, got.Day)

	f.mem.SetFailing(false)
	assert.Equal(t, StepWelcome, f.session(ctx).Model().Step, "nothing was saved")
}
