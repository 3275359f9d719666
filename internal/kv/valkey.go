package kv

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// Valkey keeps slots as plain string keys on a valkey (or redis) server.
type Valkey struct {
	client valkey.Client
}

func NewValkey(addr string) (*Valkey, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect valkey %s: %w: %w", addr, ErrUnavailable, err)
	}
	return &Valkey{client: client}, nil
}

func NewValkeyFromClient(client valkey.Client) *Valkey {
	return &Valkey{client: client}
}

func (v *Valkey) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("valkey get %s: %w: %w", key, ErrUnavailable, err)
	}
	return s, true, nil
}

func (v *Valkey) Set(ctx context.Context, key, value string) error {
	if err := v.client.Do(ctx, v.client.B().Set().Key(key).Value(value).Build()).Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}

func (v *Valkey) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := v.client.Do(ctx, v.client.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("valkey delete: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (v *Valkey) Close() {
	v.client.Close()
}

var _ Store = (*Valkey)(nil)
