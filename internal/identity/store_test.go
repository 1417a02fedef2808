package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStorage struct {
	loadErr error
	saveErr error
}

func (f failingStorage) Load(context.Context) (string, error) { return "", f.loadErr }
func (f failingStorage) Save(context.Context, string) error   { return f.saveErr }
func (f failingStorage) Remove(context.Context) error         { return nil }

func TestStore_SetSurvivesFreshStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := New(ctx, NewFileStorage(dir), zap.NewNop())
	assert.Equal(t, "", s.Get())
	require.NoError(t, s.Set("tenant-123"))
	assert.Equal(t, "tenant-123", s.Get())

	fresh := New(ctx, NewFileStorage(dir), zap.NewNop())
	assert.Equal(t, "tenant-123", fresh.Get())
	assert.True(t, fresh.Has())
}

func TestStore_SetOverwrites(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(context.Background(), storage, nil)

	require.NoError(t, s.Set("a"))
	require.NoError(t, s.Set("b"))

	persisted, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", persisted)
	assert.Equal(t, "b", s.Get())
}

func TestStore_DoubleClearIsNoop(t *testing.T) {
	dir := t.TempDir()
	s := New(context.Background(), NewFileStorage(dir), nil)
	require.NoError(t, s.Set("tenant-123"))

	var notified []string
	s.Subscribe(func(id string) { notified = append(notified, id) })

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	assert.Equal(t, "", s.Get())
	assert.Equal(t, []string{""}, notified)

	fresh := New(context.Background(), NewFileStorage(dir), nil)
	assert.Equal(t, "", fresh.Get())
}

func TestStore_SetEmptyClears(t *testing.T) {
	s := New(context.Background(), NewMemoryStorage(), nil)
	require.NoError(t, s.Set("x"))
	require.NoError(t, s.Set(""))
	assert.False(t, s.Has())
}

func TestStore_SubscribersSeeOnlyChanges(t *testing.T) {
	s := New(context.Background(), nil, nil)

	var got []string
	unsubscribe := s.Subscribe(func(id string) { got = append(got, id) })

	require.NoError(t, s.Set("a"))
	require.NoError(t, s.Set("a"))
	require.NoError(t, s.Set("b"))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.Set("c"))

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestStore_NilStorageKeepsMemoryOnly(t *testing.T) {
	s := New(context.Background(), nil, nil)
	require.NoError(t, s.Set("tenant"))
	assert.Equal(t, "tenant", s.Get())
	require.NoError(t, s.Clear())
	assert.Equal(t, "", s.Get())
}

func TestStore_StorageFailures(t *testing.T) {
	s := New(context.Background(), failingStorage{loadErr: errors.New("disk gone")}, nil)
	assert.Equal(t, "", s.Get())

	s = New(context.Background(), failingStorage{saveErr: errors.New("read-only")}, nil)
	err := s.Set("tenant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
	assert.Equal(t, "tenant", s.Get())
}
