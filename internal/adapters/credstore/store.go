// Package credstore persists the session credential across process
// restarts. Storage is a single-table key-value schema in a local sqlite
// file; the bearer token is sealed at rest with a machine-local key.
package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventease/internal/domain"
)

// The three keys are always written and cleared together; a partial record
// is treated as signed out.
const (
	keyIdentity = "user"
	keyRoles    = "roles"
	keyToken    = "token"
)

type Store struct {
	db     *sql.DB
	sealer *sealer
}

// New returns a Store over db. sealKey seals the bearer token at rest; it
// must be 32 bytes, or nil to store the token unsealed.
func New(db *sql.DB, sealKey []byte) (*Store, error) {
	s := &Store{db: db}
	if sealKey != nil {
		sl, err := newSealer(sealKey)
		if err != nil {
			return nil, err
		}
		s.sealer = sl
	}
	return s, nil
}

var _ domain.CredentialStore = (*Store)(nil)

func (s *Store) Save(ctx context.Context, ps *domain.PersistedSession) error {
	token := []byte(ps.Token)
	if s.sealer != nil {
		sealed, err := s.sealer.seal(token)
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
		token = sealed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, kv := range []struct {
		k string
		v []byte
	}{
		{keyIdentity, ps.Identity},
		{keyRoles, ps.Roles},
		{keyToken, token},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (k, v) VALUES (?, ?)
			 ON CONFLICT (k) DO UPDATE SET v = excluded.v`,
			kv.k, kv.v); err != nil {
			return fmt.Errorf("store %s: %w", kv.k, err)
		}
	}
	return tx.Commit()
}

// Load returns the persisted session, or (nil, nil) when no complete
// session is stored.
func (s *Store) Load(ctx context.Context) (*domain.PersistedSession, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT k, v FROM credentials`)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	defer rows.Close()

	found := map[string][]byte{}
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		found[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	identity, okID := found[keyIdentity]
	roles, okRoles := found[keyRoles]
	token, okToken := found[keyToken]
	if !okID || !okRoles || !okToken {
		return nil, nil
	}

	if s.sealer != nil {
		opened, err := s.sealer.open(token)
		if err != nil {
			// A token we cannot unseal is as good as no session.
			return nil, nil
		}
		token = opened
	}

	return &domain.PersistedSession{
		Identity: identity,
		Roles:    roles,
		Token:    string(token),
	}, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

var errBadSealKey = errors.New("seal key must be 32 bytes")
