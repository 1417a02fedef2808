package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Harshitk-cp/sump-console/internal/domain"
)

// FileStorage keeps the tenant id in a file named StorageKey inside dir.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (f *FileStorage) path() string {
	return filepath.Join(f.dir, StorageKey)
}

func (f *FileStorage) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.path(), err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileStorage) Save(_ context.Context, id string) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	tmp := f.path() + ".tmp"
	if err := os.WriteFile(tmp, []byte(id), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path())
}

func (f *FileStorage) Remove(_ context.Context) error {
	if err := os.Remove(f.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.path(), err)
	}
	return nil
}

// MemoryStorage is durable only for the life of the process.
type MemoryStorage struct {
	mu sync.Mutex
	id string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

func (m *MemoryStorage) Save(_ context.Context, id string) error {
	m.mu.Lock()
	m.id = id
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context) error {
	m.mu.Lock()
	m.id = ""
	m.mu.Unlock()
	return nil
}

var (
	_ domain.IdentityStorage = (*FileStorage)(nil)
	_ domain.IdentityStorage = (*MemoryStorage)(nil)
)
