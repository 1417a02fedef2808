package service

import (
	"path/filepath"
	"sync"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/identity"
	"github.com/Harshitk-cp/sump-console/internal/store"
)

// NewPostgresStorageFactory keeps each device's tenant id in Postgres.
func NewPostgresStorageFactory(s *store.IdentityStore) StorageFactory {
	return s.ForDevice
}

// NewFileStorageFactory keeps each device's tenant id under dir/<device id>.
func NewFileStorageFactory(dir string) StorageFactory {
	return func(deviceID string) domain.IdentityStorage {
		return identity.NewFileStorage(filepath.Join(dir, filepath.Base(deviceID)))
	}
}

// NewMemoryStorageFactory keeps tenant ids for the life of the process, so
// they outlive evicted workspaces but not restarts.
func NewMemoryStorageFactory() StorageFactory {
	var mu sync.Mutex
	storages := make(map[string]*identity.MemoryStorage)
	return func(deviceID string) domain.IdentityStorage {
		mu.Lock()
		defer mu.Unlock()
		s, ok := storages[deviceID]
		if !ok {
			s = identity.NewMemoryStorage()
			storages[deviceID] = s
		}
		return s
	}
}
