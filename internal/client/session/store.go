// Package session implements the typed session store: the single owner of
// the persisted token, cached profile fields, and avatar reference.
package session

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/aloria-app/aloria-client/internal/client/models"
	sessionrepo "github.com/aloria-app/aloria-client/internal/client/repositories/session"
	"github.com/aloria-app/aloria-client/internal/dbx"
)

// Storage keys, kept identical to the original client's preference names.
const (
	keyToken     = "jwt_token"
	keyUserID    = "user_id"
	keyFirstName = "firstname"
	keyLastName  = "lastname"
	keyEmail     = "email"
	keyAvatarRef = "avatar_uri"
)

// Store exposes typed operations over the key-value session repository.
// Multi-field writes (SaveUser, SaveSession, ClearAll) run inside one
// transaction so partial state is never observable.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo(db dbx.DBTX) sessionrepo.Repository {
	return sessionrepo.NewSQLiteRepository(db)
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.repo(s.db).Set(ctx, keyToken, token)
}

func (s *Store) Token(ctx context.Context) (string, bool, error) {
	return s.repo(s.db).Get(ctx, keyToken)
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keyToken)
}

// SaveUser overwrites the cached profile fields in one transaction.
func (s *Store) SaveUser(ctx context.Context, userID int64, firstName, lastName, email string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.saveUserTx(ctx, tx, userID, firstName, lastName, email)
	})
}

func (s *Store) saveUserTx(ctx context.Context, tx dbx.DBTX, userID int64, firstName, lastName, email string) error {
	repo := s.repo(tx)
	if err := repo.Set(ctx, keyUserID, strconv.FormatInt(userID, 10)); err != nil {
		return err
	}
	if err := repo.Set(ctx, keyFirstName, firstName); err != nil {
		return err
	}
	if err := repo.Set(ctx, keyLastName, lastName); err != nil {
		return err
	}
	return repo.Set(ctx, keyEmail, email)
}

// SaveSession persists the token and all profile fields atomically. The
// avatar reference is left untouched: it is client-side state, not part of
// the server response.
func (s *Store) SaveSession(ctx context.Context, sess *models.Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repo(tx).Set(ctx, keyToken, sess.Token); err != nil {
			return err
		}
		return s.saveUserTx(ctx, tx, sess.UserID, sess.FirstName, sess.LastName, sess.Email)
	})
}

func (s *Store) UserID(ctx context.Context) (int64, bool, error) {
	v, ok, err := s.repo(s.db).Get(ctx, keyUserID)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Store) FirstName(ctx context.Context) (string, bool, error) {
	return s.repo(s.db).Get(ctx, keyFirstName)
}

func (s *Store) LastName(ctx context.Context) (string, bool, error) {
	return s.repo(s.db).Get(ctx, keyLastName)
}

func (s *Store) Email(ctx context.Context) (string, bool, error) {
	return s.repo(s.db).Get(ctx, keyEmail)
}

func (s *Store) SaveAvatarRef(ctx context.Context, ref string) error {
	return s.repo(s.db).Set(ctx, keyAvatarRef, ref)
}

func (s *Store) AvatarRef(ctx context.Context) (string, bool, error) {
	return s.repo(s.db).Get(ctx, keyAvatarRef)
}

// Load reads the whole persisted session. ok is false when no token is
// stored, i.e. the user is not authenticated.
func (s *Store) Load(ctx context.Context) (*models.Session, bool, error) {
	token, ok, err := s.Token(ctx)
	if err != nil || !ok || token == "" {
		return nil, false, err
	}

	sess := &models.Session{Token: token}
	if id, ok, err := s.UserID(ctx); err != nil {
		return nil, false, err
	} else if ok {
		sess.UserID = id
	}
	if v, ok, err := s.FirstName(ctx); err != nil {
		return nil, false, err
	} else if ok {
		sess.FirstName = v
	}
	if v, ok, err := s.LastName(ctx); err != nil {
		return nil, false, err
	} else if ok {
		sess.LastName = v
	}
	if v, ok, err := s.Email(ctx); err != nil {
		return nil, false, err
	} else if ok {
		sess.Email = v
	}
	if v, ok, err := s.AvatarRef(ctx); err != nil {
		return nil, false, err
	} else if ok {
		sess.AvatarRef = v
	}
	return sess, true, nil
}

// ClearAll erases the token, profile fields, and avatar reference as one
// logical operation.
func (s *Store) ClearAll(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Clear(ctx)
	})
}
