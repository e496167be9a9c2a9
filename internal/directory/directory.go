// Package directory implements the mutable user directory the session store
// authenticates against. It is an explicit object with its own lifecycle:
// initialized once at startup from persisted state (or the seed set) and
// passed into its consumers, never ambient global state.
package directory

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"faunastore/internal/domain"
	"faunastore/internal/storage"
)

const storageKey = "fauna_users"

var ErrPhoneTaken = errors.New("phone number already registered")

type Directory struct {
	mu    sync.RWMutex
	users []domain.User

	store storage.PersistentStore
	now   func() time.Time
}

// New restores the directory from persisted state. When nothing is stored
// yet, the seed users become the initial directory and are persisted.
func New(ctx context.Context, ps storage.PersistentStore, seed []domain.User) *Directory {
	d := &Directory{
		store: ps,
		now:   time.Now,
	}

	var users []domain.User
	err := ps.Load(ctx, storageKey, &users)
	if err == nil {
		d.users = users
		return d
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("directory restore error: %v", err)
	}

	d.users = append(d.users, seed...)
	d.persist(ctx)
	return d
}

// FindByLoginKey returns the record whose name or phone exactly matches key.
func (d *Directory) FindByLoginKey(key string) (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Name == key || u.Phone == key {
			return u, true
		}
	}
	return domain.User{}, false
}

// Add creates a new directory record. The phone must be unique; ErrPhoneTaken
// is returned otherwise and the directory is left unchanged.
func (d *Directory) Add(ctx context.Context, name, phone, password string) (domain.User, error) {
	d.mu.Lock()
	for _, u := range d.users {
		if u.Phone == phone {
			d.mu.Unlock()
			return domain.User{}, ErrPhoneTaken
		}
	}

	user := domain.User{
		ID:        d.nextID(),
		Name:      name,
		Phone:     phone,
		Password:  password,
		CreatedAt: d.now().UTC().Format(time.RFC3339),
	}
	d.users = append(d.users, user)
	d.mu.Unlock()

	d.persist(ctx)
	return user, nil
}

// Users returns a copy of every directory record.
func (d *Directory) Users() []domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.User, len(d.users))
	copy(out, d.users)
	return out
}

// nextID must be called with the lock held.
func (d *Directory) nextID() int {
	max := 0
	for _, u := range d.users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

func (d *Directory) persist(ctx context.Context) {
	d.mu.RLock()
	users := make([]domain.User, len(d.users))
	copy(users, d.users)
	d.mu.RUnlock()

	if err := d.store.Save(ctx, storageKey, users); err != nil {
		log.Printf("directory persist error: %v", err)
	}
}

// SeedUsers is the default directory the storefront ships with, used when no
// persisted directory exists yet.
func SeedUsers() []domain.User {
	return []domain.User{
		{
			ID:        1,
			Name:      "admin",
			Phone:     "+7 900 000-00-01",
			Password:  "admin",
			IsAdmin:   true,
			CreatedAt: "2024-01-01T00:00:00Z",
		},
		{
			ID:        2,
			Name:      "Anna",
			Phone:     "+7 900 000-00-02",
			Password:  "12345",
			CreatedAt: "2024-01-01T00:00:00Z",
		},
	}
}
