package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"studycompanion/internal/models"
)

const (
	UserKey     = "user"
	DocumentKey = "document"
)

// Navigator sends the user somewhere else, e.g. to the login page. It is called
// and forgotten.
type Navigator func(url string)

// Document remembers the last upload so later commands can echo its session id.
type Document struct {
	SessionID  string          `json:"session_id"`
	Filename   string          `json:"filename"`
	UserType   models.UserType `json:"user_type"`
	UploadedAt time.Time       `json:"uploaded_at"`
}

// Store holds the signed-in user. A Store without a backend behaves like code
// running outside a browser: reads return nil and writes do nothing.
type Store struct {
	backend  Backend
	navigate Navigator
	log      zerolog.Logger
}

type Option func(*Store)

func WithNavigator(n Navigator) Option {
	return func(s *Store) { s.navigate = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func NewStore(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) available() bool {
	return s != nil && s.backend != nil
}

// User never fails: missing, unreadable and malformed entries all read as nil.
func (s *Store) User(ctx context.Context) *models.User {
	var u *models.User
	if !s.load(ctx, UserKey, &u) {
		return nil
	}
	return u
}

func (s *Store) SetUser(ctx context.Context, u models.User) error {
	return s.save(ctx, UserKey, u)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.remove(ctx, UserKey)
}

// RequireAuth returns the stored user. When there is none it navigates to
// redirectURL and returns nil; without a backend it only returns nil.
func (s *Store) RequireAuth(ctx context.Context, redirectURL string) *models.User {
	u := s.User(ctx)
	if u == nil && s.available() {
		s.log.Debug().Str("redirect", redirectURL).Msg("no stored user, redirecting")
		if s.navigate != nil {
			s.navigate(redirectURL)
		}
		return nil
	}
	return u
}

func (s *Store) Document(ctx context.Context) *Document {
	var d *Document
	if !s.load(ctx, DocumentKey, &d) {
		return nil
	}
	return d
}

func (s *Store) SetDocument(ctx context.Context, d Document) error {
	return s.save(ctx, DocumentKey, d)
}

func (s *Store) ClearDocument(ctx context.Context) error {
	return s.remove(ctx, DocumentKey)
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	if !s.available() {
		return false
	}
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("session read failed")
		}
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("ignoring malformed session entry")
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	if !s.available() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, b); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, key string) error {
	if !s.available() {
		return nil
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}
