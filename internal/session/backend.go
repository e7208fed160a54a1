package session

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session key not found")

// Backend is the key-value storage a Store persists into. Get returns ErrNotFound
// for missing keys; Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
