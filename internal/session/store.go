// Package session owns the authenticated identity for the current session.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"faunastore/internal/domain"
	"faunastore/internal/notify"
	"faunastore/internal/storage"
)

const storageKey = "user"

// ErrInvalidCredentials is returned for an unknown login key and for a wrong
// password alike, so a caller cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Directory is the user directory the store authenticates against.
type Directory interface {
	FindByLoginKey(key string) (domain.User, bool)
	Add(ctx context.Context, name, phone, password string) (domain.User, error)
}

// Store is either anonymous or authenticated. The identity persists across
// restarts until Logout; the password is never retained after
// authentication.
type Store struct {
	mu       sync.RWMutex
	identity *domain.Identity

	dir   Directory
	store storage.PersistentStore
	hub   *notify.Hub
}

// NewStore restores the persisted identity if present, else starts
// anonymous.
func NewStore(ctx context.Context, ps storage.PersistentStore, dir Directory) *Store {
	s := &Store{
		dir:   dir,
		store: ps,
		hub:   notify.NewHub(),
	}

	var identity *domain.Identity
	if err := ps.Load(ctx, storageKey, &identity); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("session restore error: %v", err)
		}
		return s
	}
	s.identity = identity
	return s
}

// Login authenticates against the directory by exact login key (name or
// phone) and password equality. The comparison is the documented plaintext
// placeholder of the mock directory, not a security mechanism.
func (s *Store) Login(ctx context.Context, loginKey, password string) (domain.Identity, error) {
	user, found := s.dir.FindByLoginKey(loginKey)
	if !found || user.Password != password {
		return domain.Identity{}, ErrInvalidCredentials
	}

	identity := user.Identity()
	s.setIdentity(ctx, &identity)
	return identity, nil
}

// Register adds a new directory record and immediately signs in as it.
// A duplicate phone surfaces the directory's ErrPhoneTaken and changes
// nothing.
func (s *Store) Register(ctx context.Context, name, phone, password string) (domain.Identity, error) {
	user, err := s.dir.Add(ctx, name, phone, password)
	if err != nil {
		return domain.Identity{}, err
	}

	identity := user.Identity()
	s.setIdentity(ctx, &identity)
	return identity, nil
}

// Logout returns the store to anonymous. It always succeeds and is
// idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.setIdentity(ctx, nil)
}

// Current returns the signed-in identity, if any.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether an identity is signed in.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Subscribe registers a callback invoked after every state change.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

func (s *Store) setIdentity(ctx context.Context, identity *domain.Identity) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	if err := s.store.Save(ctx, storageKey, identity); err != nil {
		log.Printf("session persist error: %v", err)
	}
	s.hub.Notify()
}
