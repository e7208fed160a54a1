package api

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"studycompanion/internal/models"
)

var (
	errAccountExists      = errors.New("Email already registered")
	errInvalidCredentials = errors.New("Invalid email or password")
	errWeakPassword       = errors.New("Password must be at least 6 characters")
	errLongPassword       = errors.New("Password must be at most 72 bytes")
)

type account struct {
	user models.User
	hash []byte
}

// accounts is a per-role in-memory user table. Students and teachers may share
// an email address.
type accounts struct {
	mu    sync.RWMutex
	users map[string]account
	cost  int
}

func newAccounts(cost int) *accounts {
	return &accounts{users: make(map[string]account), cost: cost}
}

func accountKey(role models.UserType, email string) string {
	return string(role) + ":" + strings.ToLower(strings.TrimSpace(email))
}

func (a *accounts) register(role models.UserType, email, password, subject string) (models.User, error) {
	if len(password) < 6 {
		return models.User{}, errWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.User{}, errLongPassword
	}
	if err != nil {
		return models.User{}, err
	}
	u := models.User{Email: strings.TrimSpace(email), Role: role}
	if role == models.UserTeacher {
		u.Subject = subject
	}
	key := accountKey(role, email)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[key]; ok {
		return models.User{}, errAccountExists
	}
	a.users[key] = account{user: u, hash: hash}
	return u, nil
}

func (a *accounts) login(role models.UserType, email, password string) (models.User, error) {
	a.mu.RLock()
	acc, ok := a.users[accountKey(role, email)]
	a.mu.RUnlock()
	if !ok {
		return models.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return models.User{}, errInvalidCredentials
	}
	return acc.user, nil
}
