package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sump_tenant_id"

func TestIdentityStore_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS console_identities").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, NewIdentityStore(mock, testKey).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_LoadExisting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM console_identities").
		WithArgs("device-1", testKey).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("tenant-123"))

	id, err := NewIdentityStore(mock, testKey).ForDevice("device-1").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tenant-123", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_LoadMissingIsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM console_identities").
		WithArgs("device-1", testKey).
		WillReturnError(pgx.ErrNoRows)

	s := NewIdentityStore(mock, testKey)
	_, err = s.Get(context.Background(), "device-1")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery("SELECT value FROM console_identities").
		WithArgs("device-1", testKey).
		WillReturnError(pgx.ErrNoRows)

	id, err := s.ForDevice("device-1").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_SaveAndRemove(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO console_identities").
		WithArgs("device-1", testKey, "tenant-9").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM console_identities").
		WithArgs("device-1", testKey).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	storage := NewIdentityStore(mock, testKey).ForDevice("device-1")
	require.NoError(t, storage.Save(context.Background(), "tenant-9"))
	require.NoError(t, storage.Remove(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_PropagatesDBErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO console_identities").
		WithArgs("device-1", testKey, "tenant-9").
		WillReturnError(boom)

	err = NewIdentityStore(mock, testKey).ForDevice("device-1").Save(context.Background(), "tenant-9")
	assert.ErrorIs(t, err, boom)
}
