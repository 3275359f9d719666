package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atypico/journey/internal/clock"
	"github.com/atypico/journey/internal/events"
	"github.com/atypico/journey/internal/kv"
	"github.com/atypico/journey/internal/logging"
	"github.com/atypico/journey/internal/models"
)

// Entry is one row of the static reminder table.
type Entry struct {
	Day     int
	After   time.Duration // offset from day-1 completion
	Message string        // {name} is replaced with the contact name
}

// DefaultSchedule nudges the user 24h and 48h after finishing day 1.
var DefaultSchedule = []Entry{
	{
		Day:     2,
		After:   24 * time.Hour,
		Message: "Oi {name}, tudo bem? É hora de continuar sua jornada de descoberta com seu filho 💙 Clique aqui para responder o Dia 2.",
	},
	{
		Day:     3,
		After:   48 * time.Hour,
		Message: "Seu progresso está incrível. Hoje é o último dia da sua jornada Atypica. Vamos juntos?",
	},
}

type Scheduler struct {
	kv         kv.Store
	clock      clock.Clock
	log        *zap.Logger
	table      []Entry
	dispatcher *Dispatcher
}

type Option func(*Scheduler)

func WithClock(c clock.Clock) Option { return func(s *Scheduler) { s.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Scheduler) { s.log = logging.OrNop(l) } }

func WithSchedule(table []Entry) Option { return func(s *Scheduler) { s.table = table } }

func WithDispatcher(d *Dispatcher) Option { return func(s *Scheduler) { s.dispatcher = d } }

func New(store kv.Store, opts ...Option) *Scheduler {
	s := &Scheduler{kv: store, clock: clock.System{}, log: zap.NewNop(), table: DefaultSchedule}
	for _, o := range opts {
		o(s)
	}
	if s.dispatcher == nil {
		s.dispatcher = NewDispatcher(s.log, "")
	}
	return s
}

// RecordID is the composite reminder id: <email>-day<N>.
func RecordID(email string, day int) string {
	return fmt.Sprintf("%s-day%d", email, day)
}

func render(tmpl, name string) string {
	return strings.Replace(tmpl, "{name}", name, 1)
}

// OnDayOneCompleted lets the user store trigger scheduling directly.
func (s *Scheduler) OnDayOneCompleted(ctx context.Context, ev events.DayOneCompleted) error {
	_, err := s.Schedule(ctx, ev)
	return err
}

// Schedule derives one pending record per table entry and persists them.
// A record whose id already exists is replaced, so redoing day 1 never
// leaves two reminders for the same user and day.
func (s *Scheduler) Schedule(ctx context.Context, ev events.DayOneCompleted) ([]models.ReminderRecord, error) {
	contact := models.Contact{
		Name:            ev.Name,
		Email:           ev.Email,
		WhatsApp:        ev.WhatsApp,
		Day1CompletedAt: ev.CompletedAt,
	}
	created := make([]models.ReminderRecord, 0, len(s.table))
	for _, e := range s.table {
		created = append(created, models.ReminderRecord{
			ID:           RecordID(ev.Email, e.Day),
			Day:          e.Day,
			Contact:      contact,
			ScheduledFor: ev.CompletedAt.Add(e.After),
			Message:      render(e.Message, ev.Name),
		})
	}

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range created {
		all = upsert(all, rec)
	}
	if err := s.save(ctx, all); err != nil {
		return created, err
	}
	s.log.Info("reminders scheduled", zap.String("email", ev.Email), zap.Int("count", len(created)))
	return created, nil
}

func upsert(all []models.ReminderRecord, rec models.ReminderRecord) []models.ReminderRecord {
	for i := range all {
		if all[i].ID == rec.ID {
			all[i] = rec
			return all
		}
	}
	return append(all, rec)
}

// Sweep marks every pending record due at now as sent, dispatching it on
// each channel. Channel failures are kept on the record and never block Sent.
// It returns the full updated collection.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) ([]models.ReminderRecord, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	swept := 0
	for i := range all {
		if !all[i].Due(now) {
			continue
		}
		sentAt := now
		all[i].Sent = true
		all[i].SentAt = &sentAt
		all[i].DeliveryErrors = s.dispatcher.Dispatch(ctx, all[i])
		swept++
	}
	if swept == 0 {
		return all, nil
	}
	s.log.Info("reminder sweep", zap.String("run", runID), zap.Int("sent", swept), zap.Int("total", len(all)))
	if err := s.save(ctx, all); err != nil {
		return all, err
	}
	return all, nil
}

// SweepNow sweeps at the scheduler clock's current time.
func (s *Scheduler) SweepNow(ctx context.Context) ([]models.ReminderRecord, error) {
	return s.Sweep(ctx, s.clock.Now())
}

// Load returns all stored records. A corrupt slot reads as empty and records
// that fail validation are dropped.
func (s *Scheduler) Load(ctx context.Context) []models.ReminderRecord {
	all, err := s.load(ctx)
	if err != nil {
		s.log.Warn("read reminders", zap.Error(err))
		return nil
	}
	return all
}

// load is Load for Schedule and Sweep, which must not rewrite the slot from
// nothing when the backend could not be read.
func (s *Scheduler) load(ctx context.Context) ([]models.ReminderRecord, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeyReminders)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("corrupt reminders, treating as empty", zap.Error(err))
		return nil, nil
	}
	out := make([]models.ReminderRecord, 0, len(items))
	for i, item := range items {
		var rec models.ReminderRecord
		if err := json.Unmarshal(item, &rec); err != nil || !valid(rec) {
			s.log.Warn("skip invalid reminder", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func valid(r models.ReminderRecord) bool {
	if r.ID == "" || r.ScheduledFor.IsZero() || r.Day < 1 || r.Day > 3 {
		return false
	}
	if r.Sent && r.SentAt == nil {
		return false
	}
	return true
}

func (s *Scheduler) save(ctx context.Context, all []models.ReminderRecord) error {
	b, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyReminders, string(b)); err != nil {
		s.log.Warn("write reminders", zap.Error(err))
		return fmt.Errorf("save reminders: %w", err)
	}
	return nil
}

var _ events.DayOneHandler = (*Scheduler)(nil)
