package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// userColumns is the column list every user query selects, in scan order.
const userColumns = "id, username, pass_hash, user_level, two_factor"

// UserStore owns the durable representation of user accounts and keeps an
// in-memory Directory mirrored from it.
//
// The pairing follows a simple state machine: after NewUserStore+Refresh the
// two are in sync; Create updates both sides together; any write that
// bypasses Create leaves the directory stale until the next Refresh.
type UserStore struct {
	db  *sql.DB
	dir *Directory
}

// NewUserStore creates a store over an open SQLite connection with an empty
// directory. Call Refresh to populate it.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, dir: NewDirectory()}
}

// Directory returns the live in-memory index.
func (s *UserStore) Directory() *Directory {
	return s.dir
}

// LoadAll reads every user row in storage order (insertion order in
// practice, not guaranteed id order).
func (s *UserStore) LoadAll(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users")
	if err != nil {
		return nil, storageErr("listing users", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUserFrom(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating users", err)
	}

	return users, nil
}

// Refresh clears the directory and repopulates it from LoadAll. It must be
// called after any write that bypassed Create; the cache is never diffed
// incrementally. The directory is left untouched if the load fails.
func (s *UserStore) Refresh(ctx context.Context) error {
	users, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	s.dir.Clear()
	for i := range users {
		s.dir.Add(&users[i])
	}
	return nil
}

// Create inserts a new account and mirrors it into the directory. The
// username is normalised to lowercase before the insert; the password is
// hashed, never stored. Storage assigns the id, so the freshly inserted row
// is read back by username rather than trusting driver-side insert ids.
//
// A uniqueness rejection from storage surfaces as ErrUsernameExists.
func (s *UserStore) Create(ctx context.Context, username, password string, level Level) (*User, error) {
	username = NormalizeUsername(username)
	if !IsValidUsername(username) {
		return nil, fmt.Errorf("%w: username %q is not valid", ErrInvalidArgument, username)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (username, pass_hash, user_level) VALUES (?, ?, ?)",
		username, hash, int(level),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username %q: %w", username, ErrUsernameExists)
		}
		return nil, storageErr("creating user", err)
	}

	u, err := s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	if err != nil {
		return nil, fmt.Errorf("reading back created user: %w", err)
	}

	s.dir.Add(u)
	return u, nil
}

// GetByID reads a single row straight from storage, bypassing the
// directory. Gated at LevelReadUsers.
func (s *UserStore) GetByID(ctx context.Context, p Principal, id int64) (*User, error) {
	if err := Require(p, LevelReadUsers); err != nil {
		return nil, err
	}
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// Count returns the number of persisted accounts.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, storageErr("counting users", err)
	}
	return count, nil
}

// getUser executes a query expected to return one user row.
func (s *UserStore) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	return scanUserFrom(s.db.QueryRowContext(ctx, query, args...))
}

// scanner is the shared Scan surface of sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanUserFrom scans one user record from a row.
func scanUserFrom(sc scanner) (*User, error) {
	var u User
	var level int64
	var twoFactor sql.NullString

	if err := sc.Scan(&u.ID, &u.Username, &u.PasswordHash, &level, &twoFactor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("scanning user", err)
	}

	u.Level = Level(level)
	if twoFactor.Valid {
		u.TwoFactor = twoFactor.String
	}
	return &u, nil
}

// storageErr classifies low-level database failures. A closed or invalid
// connection becomes ErrStorageUnavailable; anything else is wrapped as-is.
func storageErr(op string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
