package journey

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/logging"
	"github.com/atypico/journey/internal/models"
	"github.com/atypico/journey/internal/userstore"
)

// Sweeper is the reminder scheduler as seen from the machine.
type Sweeper interface {
	SweepNow(ctx context.Context) ([]models.ReminderRecord, error)
}

// Machine owns the current Model for one user and writes through to the
// store at each completion boundary. Storage failures are logged and the
// flow carries on. Safe for concurrent use.
type Machine struct {
	content *content.Content
	store   *userstore.Store
	sweeper Sweeper
	log     *zap.Logger

	mu    sync.Mutex
	model Model
}

type MachineOption func(*Machine)

func WithSweeper(s Sweeper) MachineOption { return func(m *Machine) { m.sweeper = s } }

func WithLogger(l *zap.Logger) MachineOption { return func(m *Machine) { m.log = logging.OrNop(l) } }

func NewMachine(c *content.Content, store *userstore.Store, opts ...MachineOption) *Machine {
	m := &Machine{content: c, store: store, log: zap.NewNop(), model: NewModel()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Mount runs the reminder sweep, then resumes from the stored aggregate.
func (m *Machine) Mount(ctx context.Context) Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sweeper != nil {
		if _, err := m.sweeper.SweepNow(ctx); err != nil {
			m.log.Warn("reminder sweep on mount", zap.Error(err))
		}
	}
	m.model = Resume(m.store.Read(ctx))
	m.log.Info("journey mounted", zap.String("step", string(m.model.Step)), zap.Int("day", m.model.Day))
	return m.model
}

func (m *Machine) Model() Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

func (m *Machine) Content() *content.Content { return m.content }

// Dispatch applies ev and runs the resulting effects. The returned error is
// the transition's (validation or invalid event); effect failures never surface.
func (m *Machine) Dispatch(ctx context.Context, ev Event) (Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, effects, err := Transition(m.content, m.model, ev)
	m.model = next
	if err != nil {
		m.log.Debug("event rejected", zap.String("event", ev.Name()), zap.String("step", string(next.Step)), zap.Error(err))
		return next, err
	}
	for _, eff := range effects {
		m.run(ctx, eff)
	}
	return next, nil
}

func (m *Machine) run(ctx context.Context, eff Effect) {
	var err error
	switch e := eff.(type) {
	case SaveProfile:
		_, err = m.store.WriteProfile(ctx, e.Profile)
	case SaveInitialAnswers:
		_, err = m.store.WriteInitialAnswers(ctx, e.Answers)
	case SaveJourneyDay:
		_, err = m.store.WriteJourneyDay(ctx, e.Day, e.Answers)
	case ClearStore:
		err = m.store.Clear(ctx)
	}
	if err != nil {
		m.log.Warn("effect failed, continuing unsaved", zap.String("effect", effectName(eff)), zap.Error(err))
	}
}

func effectName(eff Effect) string {
	switch eff.(type) {
	case SaveProfile:
		return "save-profile"
	case SaveInitialAnswers:
		return "save-initial-answers"
	case SaveJourneyDay:
		return "save-journey-day"
	case ClearStore:
		return "clear"
	}
	return "unknown"
}
