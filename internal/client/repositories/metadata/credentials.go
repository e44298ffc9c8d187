package metadata

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/homelights/internal/dbx"
	"github.com/dmitrijs2005/homelights/internal/tokenx"
)

const (
	// TokenKey is the key the session credential is stored under.
	TokenKey = "token"
	// LastUserKey holds the username of the last stored credential. It
	// outlives logout and pre-fills the login prompt.
	LastUserKey = "last_user"
)

// CredentialStore persists the bearer token in the metadata table.
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Load returns "" when no credential is stored.
func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Save writes the token and the username it carries in one transaction.
// A token without a username claim is stored alone.
func (s *CredentialStore) Save(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		name, err := tokenx.Username(token)
		if err != nil {
			return nil
		}
		return repo.Set(ctx, LastUserKey, []byte(name))
	})
}

func (s *CredentialStore) Delete(ctx context.Context) error {
	return NewSQLiteRepository(s.db).Delete(ctx, TokenKey)
}

// LastUser returns "" when nobody has logged in on this machine.
func (s *CredentialStore) LastUser(ctx context.Context) (string, error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, LastUserKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
