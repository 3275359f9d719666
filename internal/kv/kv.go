// Package kv is the durable key-value slot capability the user store and the
// reminder scheduler persist through. Values are serialized text.
package kv

import (
	"context"
	"errors"
)

// Slot names.
const (
	KeyUserData  = "atypico-user-data"
	KeyUsersList = "atypico-users-list"
	KeyReminders = "atypico-reminders"
	KeyLegacy    = "atypico-data"
)

// ErrUnavailable wraps every backend failure (closed db, quota, network).
var ErrUnavailable = errors.New("storage unavailable")

type Store interface {
	// Get returns ok=false with a nil error when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete is idempotent: missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
