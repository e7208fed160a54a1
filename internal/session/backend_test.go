package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"studycompanion/internal/config"
)

func runBackendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "user")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set(ctx, "user", []byte(`{"email":"a@b.c"}`)))
	got, err := b.Get(ctx, "user")
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"a@b.c"}`, string(got))

	require.NoError(t, b.Set(ctx, "user", []byte(`{"email":"x@y.z"}`)))
	got, err = b.Get(ctx, "user")
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"x@y.z"}`, string(got))

	require.NoError(t, b.Delete(ctx, "user"))
	_, err = b.Get(ctx, "user")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, b.Delete(ctx, "user"))
}

func TestMemoryBackend(t *testing.T) {
	runBackendContract(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	runBackendContract(t, b)

	require.NoError(t, b.Set(context.Background(), "user", []byte("{}")))
	info, err := os.Stat(filepath.Join(dir, "user.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestBoltBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "sessions.db")
	b, err := OpenBolt(path)
	require.NoError(t, err)
	runBackendContract(t, b)
	require.NoError(t, b.Set(context.Background(), "user", []byte("{}")))
	require.NoError(t, b.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "user")
	require.NoError(t, err)
	require.Equal(t, "{}", string(got))
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBackend(client, "study:session:", 0)
	defer b.Close()
	runBackendContract(t, b)

	require.NoError(t, b.Set(context.Background(), "user", []byte("{}")))
	require.True(t, mr.Exists("study:session:user"))
}

func TestRedisBackendTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBackend(client, "p:", time.Minute)
	defer b.Close()
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "user", []byte("{}")))
	require.Equal(t, time.Minute, mr.TTL("p:user"))

	mr.FastForward(2 * time.Minute)
	_, err := b.Get(ctx, "user")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresBackend(t *testing.T) {
	dsn := os.Getenv("STUDY_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("STUDY_TEST_POSTGRES_URL not set")
	}
	b, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer b.Close()
	runBackendContract(t, b)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cases := []config.Config{
		{SessionBackend: "memory"},
		{SessionBackend: "file", SessionDir: t.TempDir()},
		{SessionBackend: "bolt", SessionBoltPath: filepath.Join(t.TempDir(), "s.db")},
		{SessionBackend: "redis", RedisURL: "redis://" + mr.Addr() + "/0", RedisPrefix: "t:"},
	}
	for _, cfg := range cases {
		b, closeFn, err := Open(ctx, cfg)
		require.NoError(t, err, cfg.SessionBackend)
		runBackendContract(t, b)
		require.NoError(t, closeFn())
	}

	_, closeFn, err := Open(ctx, config.Config{SessionBackend: "etcd"})
	require.Error(t, err)
	require.NotNil(t, closeFn)
}
