package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/atypico/journey/internal/kv"
)

func newValkey(t *testing.T) (*kv.Valkey, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:   []string{mr.Addr()},
		DisableCache:  true,
		ClientSetInfo: valkey.DisableClientSetInfo,
	})
	require.NoError(t, err)
	v := kv.NewValkeyFromClient(client)
	t.Cleanup(v.Close)
	return v, mr
}

func TestValkeyMissingKey(t *testing.T) {
	v, _ := newValkey(t)
	val, ok, err := v.Get(context.Background(), kv.KeyReminders)
	require.NoError(t, err, "a nil reply is a missing slot, not a backend failure")
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestValkeySlots(t *testing.T) {
	ctx := context.Background()
	v, mr := newValkey(t)

	require.NoError(t, v.Set(ctx, kv.KeyUserData, `{"currentDay":2}`))
	got, err := mr.Get(kv.KeyUserData)
	require.NoError(t, err)
	assert.Equal(t, `{"currentDay":2}`, got)

	val, ok, err := v.Get(ctx, kv.KeyUserData)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"currentDay":2}`, val)

	require.NoError(t, mr.Set(kv.KeyLegacy, "old"))
	require.NoError(t, v.Delete(ctx, kv.KeyUserData, kv.KeyLegacy))
	assert.False(t, mr.Exists(kv.KeyUserData))
	assert.False(t, mr.Exists(kv.KeyLegacy))

	require.NoError(t, v.Delete(ctx))
	require.NoError(t, v.Delete(ctx, kv.KeyUserData), "deleting an absent slot is fine")
}

func TestValkeyServerErrorIsUnavailable(t *testing.T) {
	ctx := context.Background()
	v, mr := newValkey(t)
	mr.SetError("ERR backend gone")

	_, _, err := v.Get(ctx, kv.KeyUserData)
	assert.True(t, errors.Is(err, kv.ErrUnavailable))
	assert.True(t, errors.Is(v.Set(ctx, kv.KeyUserData, "x"), kv.ErrUnavailable))
	assert.True(t, errors.Is(v.Delete(ctx, kv.KeyUserData), kv.ErrUnavailable))

	mr.SetError("")
	_, ok, err := v.Get(ctx, kv.KeyUserData)
	require.NoError(t, err)
	assert.False(t, ok)
}
