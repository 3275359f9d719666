package userstore

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/atypico/journey/internal/kv"
	"github.com/atypico/journey/internal/models"
)

// Users returns the historical snapshots. Entries that do not decode are skipped.
func (s *Store) Users(ctx context.Context) []models.UserData {
	users, err := s.users(ctx)
	if err != nil {
		s.log.Warn("read users list", zap.Error(err))
		return nil
	}
	return users
}

// users reports backend failures; a corrupt list reads as empty.
func (s *Store) users(ctx context.Context) ([]models.UserData, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeyUsersList)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("corrupt users list, treating as empty", zap.Error(err))
		return nil, nil
	}
	users := make([]models.UserData, 0, len(items))
	for i, item := range items {
		var u models.UserData
		if err := json.Unmarshal(item, &u); err != nil {
			s.log.Warn("skip corrupt users list entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// upsertUsersList replaces the entry with the same email or appends a new one.
// Failures are logged only: the list is a best-effort historical log.
func (s *Store) upsertUsersList(ctx context.Context, data models.UserData) {
	users, err := s.users(ctx)
	if err != nil {
		s.log.Warn("read users list, skipping update", zap.Error(err))
		return
	}
	replaced := false
	for i := range users {
		if strings.EqualFold(users[i].Profile.Email, data.Profile.Email) {
			users[i] = data
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, data)
	}

	b, err := json.Marshal(users)
	if err != nil {
		s.log.Warn("encode users list", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, kv.KeyUsersList, string(b)); err != nil {
		s.log.Warn("write users list", zap.Error(err))
	}
}

// Stats counts list entries by completion. No caching.
func (s *Store) Stats(ctx context.Context) models.Stats {
	users := s.Users(ctx)
	st := models.Stats{TotalUsers: len(users)}
	for _, u := range users {
		if u.Day1CompletedAt != nil {
			st.CompletedDay1++
		}
		if u.Day2CompletedAt != nil {
			st.CompletedDay2++
		}
		if u.Day3CompletedAt != nil {
			st.CompletedDay3++
		}
	}
	st.CompletedJourney = st.CompletedDay3
	return st
}
