package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/jackc/pgx/v5"
)

const identitySchema = `CREATE TABLE IF NOT EXISTS console_identities (
	device_id  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (device_id, key)
)`

// IdentityStore persists each browser device's selected tenant in Postgres,
// so the selection survives console restarts and workspace eviction.
type IdentityStore struct {
	db  DB
	key string
}

func NewIdentityStore(db DB, key string) *IdentityStore {
	return &IdentityStore{db: db, key: key}
}

func (s *IdentityStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, identitySchema); err != nil {
		return fmt.Errorf("create console_identities: %w", err)
	}
	return nil
}

func (s *IdentityStore) Get(ctx context.Context, deviceID string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM console_identities WHERE device_id = $1 AND key = $2`,
		deviceID, s.key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *IdentityStore) Put(ctx context.Context, deviceID, value string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO console_identities (device_id, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (device_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		deviceID, s.key, value,
	)
	return err
}

func (s *IdentityStore) Delete(ctx context.Context, deviceID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM console_identities WHERE device_id = $1 AND key = $2`,
		deviceID, s.key,
	)
	return err
}

// ForDevice binds the store to one device as durable identity storage.
func (s *IdentityStore) ForDevice(deviceID string) domain.IdentityStorage {
	return &deviceIdentity{store: s, deviceID: deviceID}
}

type deviceIdentity struct {
	store    *IdentityStore
	deviceID string
}

func (d *deviceIdentity) Load(ctx context.Context) (string, error) {
	v, err := d.store.Get(ctx, d.deviceID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (d *deviceIdentity) Save(ctx context.Context, id string) error {
	return d.store.Put(ctx, d.deviceID, id)
}

func (d *deviceIdentity) Remove(ctx context.Context) error {
	return d.store.Delete(ctx, d.deviceID)
}
