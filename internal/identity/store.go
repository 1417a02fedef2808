// Package identity holds the tenant the console is currently operating on.
//
// A Store keeps the tenant id in memory, mirrors it to durable storage under
// StorageKey and pushes every change to its subscribers. It never talks to
// the network and never validates the id.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"go.uber.org/zap"
)

// StorageKey is the single durable key the tenant id lives under.
const StorageKey = "sump_tenant_id"

type Store struct {
	mu      sync.RWMutex
	id      string
	storage domain.IdentityStorage
	logger  *zap.Logger

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(string)
}

// New loads the persisted id once. A nil storage keeps the id in memory only;
// a storage that fails to load starts the store empty.
func New(ctx context.Context, storage domain.IdentityStorage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		subs:    make(map[int]func(string)),
	}
	if storage == nil {
		return s
	}
	id, err := storage.Load(ctx)
	if err != nil {
		logger.Warn("failed to load tenant id", zap.Error(err))
		return s
	}
	s.id = id
	return s
}

// Get returns the current tenant id, or "" when none is selected.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Has reports whether a tenant is selected.
func (s *Store) Has() bool {
	return s.Get() != ""
}

// Set selects id, overwriting any previous value. Set("") clears. The
// in-memory value is updated even if durable storage fails; the storage
// error is returned.
func (s *Store) Set(id string) error {
	if id == "" {
		return s.Clear()
	}

	s.mu.Lock()
	changed := s.id != id
	s.id = id
	var err error
	if s.storage != nil {
		err = s.storage.Save(context.Background(), id)
	}
	s.mu.Unlock()

	if changed {
		s.notify(id)
	}
	if err != nil {
		return fmt.Errorf("persist tenant id: %w", err)
	}
	return nil
}

// Clear forgets the tenant. Clearing an empty store is a no-op for
// subscribers.
func (s *Store) Clear() error {
	s.mu.Lock()
	changed := s.id != ""
	s.id = ""
	var err error
	if s.storage != nil {
		err = s.storage.Remove(context.Background())
	}
	s.mu.Unlock()

	if changed {
		s.notify("")
	}
	if err != nil {
		return fmt.Errorf("remove tenant id: %w", err)
	}
	return nil
}

// Subscribe registers fn for every subsequent change. The returned func
// unsubscribes and is safe to call more than once.
func (s *Store) Subscribe(fn func(id string)) func() {
	s.subMu.Lock()
	key := s.nextID
	s.nextID++
	s.subs[key] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, key)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(id string) {
	s.subMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}
