package session

import (
	"context"
	"fmt"

	"studycompanion/internal/config"
)

// Open builds the backend named by cfg.SessionBackend. The returned close func is
// never nil.
func Open(ctx context.Context, cfg config.Config) (Backend, func() error, error) {
	noop := func() error { return nil }
	switch cfg.SessionBackend {
	case "", "file":
		b, err := NewFileBackend(cfg.SessionDir)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case "memory":
		return NewMemoryBackend(), noop, nil
	case "bolt":
		b, err := OpenBolt(cfg.SessionBoltPath)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case "redis":
		b, err := OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix, cfg.SessionTTL)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case "postgres":
		b, err := OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
