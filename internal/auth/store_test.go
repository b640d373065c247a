package auth

import (
	"context"
	"errors"
	"testing"
)

func TestUserStore_CreateNormalizesUsername(t *testing.T) {
	store := NewUserStore(testDB(t))
	ctx := context.Background()

	u, err := store.Create(ctx, "Alice", "pw", LevelReadProducts)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Username = %q, want %q", u.Username, "alice")
	}
	if u.ID == 0 {
		t.Error("Create() should carry the storage-assigned id")
	}

	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	got, err := store.Directory().Get(ByUsername("alice"))
	if err != nil {
		t.Fatalf("Get() after Refresh error = %v", err)
	}
	if got.Level != LevelReadProducts {
		t.Errorf("Level = %v, want %v", got.Level, LevelReadProducts)
	}
}

func TestUserStore_CreateMirrorsIntoDirectory(t *testing.T) {
	store := NewUserStore(testDB(t))

	seedTestUser(t, store, "bob", "hunter2", LevelWriteUsers)

	// No Refresh: Create alone must keep the pair in sync.
	p, err := store.Directory().Login("hunter2", ByUsername("bob"))
	if err != nil {
		t.Fatalf("Login() straight after Create error = %v", err)
	}
	if p.Level != LevelWriteUsers {
		t.Errorf("Principal.Level = %v, want %v", p.Level, LevelWriteUsers)
	}
}

func TestUserStore_DuplicateUsernameCaseInsensitive(t *testing.T) {
	store := NewUserStore(testDB(t))
	ctx := context.Background()

	if _, err := store.Create(ctx, "Bob", "pw1", LevelNone); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	_, err := store.Create(ctx, "bob", "pw2", LevelNone)
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("error = %v, want ErrUsernameExists", err)
	}
}

func TestUserStore_CreateRejectsBadUsername(t *testing.T) {
	store := NewUserStore(testDB(t))
	ctx := context.Background()

	for _, name := range []string{"", "has space", "way@off"} {
		if _, err := store.Create(ctx, name, "pw", LevelNone); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Create(%q) error = %v, want ErrInvalidArgument", name, err)
		}
	}
}

func TestUserStore_LoadAllStorageOrder(t *testing.T) {
	store := NewUserStore(testDB(t))
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		seedTestUser(t, store, name, "pw", LevelNone)
	}

	users, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("LoadAll() returned %d users, want 3", len(users))
	}
	if users[0].Username != "one" || users[2].Username != "three" {
		t.Error("LoadAll() should return rows in insertion order")
	}
}

func TestUserStore_RefreshRebuildsSameSet(t *testing.T) {
	store := NewUserStore(testDB(t))
	ctx := context.Background()

	seedTestUser(t, store, "alice", "pw", LevelReadProducts)
	seedTestUser(t, store, "bob", "pw", LevelFull)

	type tuple struct {
		id    int64
		name  string
		level Level
	}
	snapshot := func() map[tuple]bool {
		users, err := store.LoadAll(ctx)
		if err != nil {
			t.Fatalf("LoadAll() error = %v", err)
		}
		set := make(map[tuple]bool, len(users))
		for _, u := range users {
			set[tuple{u.ID, u.Username, u.Level}] = true
		}
		return set
	}

	before := snapshot()

	store.Directory().Clear()
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	after := snapshot()
	if len(before) != len(after) {
		t.Fatalf("set size changed across clear+refresh: %d vs %d", len(before), len(after))
	}
	for k := range before {
		if !after[k] {
			t.Errorf("tuple %+v missing after clear+refresh", k)
		}
	}
	if store.Directory().Len() != len(before) {
		t.Errorf("Directory.Len() = %d, want %d", store.Directory().Len(), len(before))
	}
}

func TestUserStore_GetByIDGated(t *testing.T) {
	store := NewUserStore(testDB(t))
	ctx := context.Background()

	u := seedTestUser(t, store, "target", "pw", LevelNone)

	if _, err := store.GetByID(ctx, Anonymous, u.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Anonymous error = %v, want ErrForbidden", err)
	}

	reader := Principal{ID: 1, Username: "reader", Level: LevelReadUsers}
	got, err := store.GetByID(ctx, reader, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "target" {
		t.Errorf("Username = %q, want %q", got.Username, "target")
	}
}

func TestUserStore_GetByIDNotFound(t *testing.T) {
	store := NewUserStore(testDB(t))

	reader := Principal{ID: 1, Username: "reader", Level: LevelFull}
	_, err := store.GetByID(context.Background(), reader, 404)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUserStore_ClosedConnection(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db)
	ctx := context.Background()

	seedTestUser(t, store, "alice", "pw", LevelNone)
	db.Close()

	if _, err := store.LoadAll(ctx); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("LoadAll() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := store.Create(ctx, "bob", "pw", LevelNone); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("Create() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestUserStore_TwoFactorAlwaysEmpty(t *testing.T) {
	store := NewUserStore(testDB(t))

	u := seedTestUser(t, store, "plain", "pw", LevelNone)
	if u.TwoFactor != "" {
		t.Errorf("TwoFactor = %q, want empty (not implemented)", u.TwoFactor)
	}
}
