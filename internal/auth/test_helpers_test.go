package auth

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the users schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "auth-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL UNIQUE,
			username   TEXT NOT NULL UNIQUE,
			pass_hash  TEXT NOT NULL,
			user_level INTEGER NOT NULL,
			two_factor TEXT
		);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying users schema: %v", err)
	}

	return db
}

// seedTestUser creates a user through the store and returns it.
func seedTestUser(t *testing.T, store *UserStore, username, password string, level Level) *User {
	t.Helper()

	u, err := store.Create(context.Background(), username, password, level)
	if err != nil {
		t.Fatalf("creating test user %s: %v", username, err)
	}
	return u
}

// directoryUser builds an in-memory record without touching storage.
func directoryUser(t *testing.T, id int64, username, password string, level Level) *User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &User{ID: id, Username: NormalizeUsername(username), PasswordHash: hash, Level: level}
}
