// Package userstore owns the durable state of the local user: one aggregate
// (profile, answers, journey progress) plus an append/update-by-email list of
// historical snapshots used for coarse counts.
//
// Reads never fail: absent, corrupt or unreachable data reads as the empty
// aggregate. Writes go straight through to the kv slot before returning, and
// a write whose read step hits a backend error is abandoned.
package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atypico/journey/internal/clock"
	"github.com/atypico/journey/internal/events"
	"github.com/atypico/journey/internal/kv"
	"github.com/atypico/journey/internal/logging"
	"github.com/atypico/journey/internal/models"
)

var (
	ErrInvalidDay        = errors.New("journey day must be 1, 2 or 3")
	ErrIncompleteAnswers = errors.New("all five daily answers are required")
	ErrImportParse       = errors.New("snapshot is not a valid user record")
)

type Store struct {
	kv       kv.Store
	clock    clock.Clock
	log      *zap.Logger
	onDayOne events.DayOneHandler
}

type Option func(*Store)

func WithClock(c clock.Clock) Option { return func(s *Store) { s.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = logging.OrNop(l) } }

// WithDayOneHandler registers who is told when day 1 is persisted.
func WithDayOneHandler(h events.DayOneHandler) Option { return func(s *Store) { s.onDayOne = h } }

func New(store kv.Store, opts ...Option) *Store {
	s := &Store{kv: store, clock: clock.System{}, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Read returns the stored aggregate, or the empty one (currentDay=1).
func (s *Store) Read(ctx context.Context) models.UserData {
	data, err := s.load(ctx)
	if err != nil {
		s.log.Warn("read user data", zap.String("key", kv.KeyUserData), zap.Error(err))
		return models.NewUserData()
	}
	return data
}

// load is Read for read-modify-write paths: absent or corrupt data is empty,
// but a backend failure is returned so the caller does not overwrite the slot.
func (s *Store) load(ctx context.Context) (models.UserData, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeyUserData)
	if err != nil {
		return models.UserData{}, err
	}
	if !ok {
		return models.NewUserData(), nil
	}
	var data models.UserData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		s.log.Warn("corrupt user data, treating as absent", zap.String("key", kv.KeyUserData), zap.Error(err))
		return models.NewUserData(), nil
	}
	normalize(&data)
	return data, nil
}

func (s *Store) HasProfile(ctx context.Context) bool {
	return s.Read(ctx).HasProfile()
}

// WriteProfile replaces the profile (stamping CreatedAt when missing) and
// upserts the aggregate into the users list by email.
func (s *Store) WriteProfile(ctx context.Context, p models.UserProfile) (models.UserData, error) {
	data, err := s.load(ctx)
	if err != nil {
		return models.UserData{}, fmt.Errorf("save profile: %w", err)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock.Now()
	}
	data.Profile = p
	if err := s.write(ctx, data); err != nil {
		return models.UserData{}, fmt.Errorf("save profile: %w", err)
	}
	s.upsertUsersList(ctx, data)
	return data, nil
}

func (s *Store) WriteInitialAnswers(ctx context.Context, a models.InitialAnswers) (models.UserData, error) {
	data, err := s.load(ctx)
	if err != nil {
		return models.UserData{}, fmt.Errorf("save initial answers: %w", err)
	}
	a.Concerns = append([]string(nil), a.Concerns...)
	data.InitialAnswers = a
	if err := s.write(ctx, data); err != nil {
		return models.UserData{}, fmt.Errorf("save initial answers: %w", err)
	}
	return data, nil
}

// WriteJourneyDay stores one day's answers, advances currentDay (capped at 3)
// and stamps day<N>CompletedAt. Completing day 1 notifies the day-one handler.
func (s *Store) WriteJourneyDay(ctx context.Context, day int, a models.DailyAnswers) (models.UserData, error) {
	if day < 1 || day > 3 {
		return models.UserData{}, fmt.Errorf("%w: got %d", ErrInvalidDay, day)
	}
	if !a.Complete() {
		return models.UserData{}, ErrIncompleteAnswers
	}

	data, err := s.load(ctx)
	if err != nil {
		return models.UserData{}, fmt.Errorf("save journey day %d: %w", day, err)
	}
	now := s.clock.Now()
	data.JourneyData.SetDay(day, a)
	data.CurrentDay = min(day+1, 3)
	data.SetCompletedAt(day, now)

	if err := s.write(ctx, data); err != nil {
		return models.UserData{}, fmt.Errorf("save journey day %d: %w", day, err)
	}
	if data.HasProfile() {
		s.upsertUsersList(ctx, data)
	}

	if day == 1 {
		s.dayOneCompleted(ctx, data, now)
	}
	return data, nil
}

func (s *Store) dayOneCompleted(ctx context.Context, data models.UserData, at time.Time) {
	if s.onDayOne == nil {
		return
	}
	if !data.HasProfile() {
		s.log.Warn("day 1 completed without a profile, no reminders scheduled")
		return
	}
	ev := events.DayOneCompleted{
		Name:        data.Profile.Name,
		Email:       data.Profile.Email,
		WhatsApp:    data.Profile.WhatsApp,
		CompletedAt: at,
	}
	if err := s.onDayOne.OnDayOneCompleted(ctx, ev); err != nil {
		s.log.Warn("day 1 handler failed", zap.String("email", ev.Email), zap.Error(err))
	}
}

// Clear removes the aggregate and the legacy-schema slot. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.KeyUserData, kv.KeyLegacy); err != nil {
		s.log.Warn("clear user data", zap.Error(err))
		return fmt.Errorf("clear user data: %w", err)
	}
	return nil
}

// ExportSnapshot renders the current aggregate as indented JSON.
func (s *Store) ExportSnapshot(ctx context.Context) (string, error) {
	b, err := json.MarshalIndent(s.Read(ctx), "", "  ")
	if err != nil {
		return "", fmt.Errorf("export snapshot: %w", err)
	}
	return string(b), nil
}

// ImportSnapshot overwrites the aggregate wholesale. Invalid text, or a
// completion stamp for a day without complete answers, fails with
// ErrImportParse and leaves the stored state untouched.
func (s *Store) ImportSnapshot(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "null" {
		return ErrImportParse
	}
	var data models.UserData
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		return fmt.Errorf("%w: %w", ErrImportParse, err)
	}
	for day := 1; day <= 3; day++ {
		if data.CompletedAt(day) == nil {
			continue
		}
		if a := data.JourneyData.Day(day); a == nil || !a.Complete() {
			return fmt.Errorf("%w: day %d marked completed without its answers", ErrImportParse, day)
		}
	}
	normalize(&data)
	if err := s.write(ctx, data); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, data models.UserData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, kv.KeyUserData, string(b)); err != nil {
		s.log.Warn("write user data", zap.String("key", kv.KeyUserData), zap.Error(err))
		return err
	}
	return nil
}

// normalize repairs currentDay so it stays in 1..3 and one past the last completed day.
func normalize(d *models.UserData) {
	if d.CurrentDay >= 1 && d.CurrentDay <= 3 {
		return
	}
	d.CurrentDay = 1
	for day := 3; day >= 1; day-- {
		if d.CompletedAt(day) != nil {
			d.CurrentDay = min(day+1, 3)
			break
		}
	}
}
