package kv

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atypico/journey/internal/db"
)

// SQLite keeps slots as rows of the kv_entries table.
type SQLite struct {
	conn *gorm.DB
}

func NewSQLite(conn *gorm.DB) *SQLite {
	return &SQLite{conn: conn}
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var e db.Entry
	err := s.conn.WithContext(ctx).Where("slot = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite get %s: %w: %w", key, ErrUnavailable, err)
	}
	return e.Value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	e := db.Entry{Key: key, Value: value}
	err := s.conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.conn.WithContext(ctx).Where("slot IN ?", keys).Delete(&db.Entry{}).Error; err != nil {
		return fmt.Errorf("sqlite delete: %w: %w", ErrUnavailable, err)
	}
	return nil
}

var _ Store = (*SQLite)(nil)
