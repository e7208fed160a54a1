package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"studycompanion/internal/util"
)

// FileBackend keeps one JSON file per key under dir.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	return util.SafeJoin(f.dir, key+".json")
}

func (f *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return b, nil
}

func (f *FileBackend) Set(ctx context.Context, key string, value []byte) error {
	_ = ctx
	return util.WriteFileAtomic(f.path(key), value, 0o600)
}

func (f *FileBackend) Delete(ctx context.Context, key string) error {
	_ = ctx
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
