package auth

import (
	"errors"
	"fmt"
	"sort"
)

// Selector identifies a user by exactly one of ID or Username. Supplying
// neither or both is a usage error reported as ErrInvalidArgument.
type Selector struct {
	ID       *int64
	Username *string
}

// ByID builds a selector for an id lookup.
func ByID(id int64) Selector {
	return Selector{ID: &id}
}

// ByUsername builds a selector for a username lookup. The username is
// normalised at lookup time, so callers may pass any casing.
func ByUsername(username string) Selector {
	return Selector{Username: &username}
}

// validate enforces the exactly-one-of contract.
func (s Selector) validate() error {
	if (s.ID == nil) == (s.Username == nil) {
		return fmt.Errorf("%w: exactly one of id or username must be set", ErrInvalidArgument)
	}
	return nil
}

// String renders the selector for error framing ("id 42" / `username "bob"`).
func (s Selector) String() string {
	switch {
	case s.ID != nil:
		return fmt.Sprintf("id %d", *s.ID)
	case s.Username != nil:
		return fmt.Sprintf("username %q", *s.Username)
	default:
		return "empty selector"
	}
}

// Directory is an in-memory index over user records: an id map, a username
// map, and an insertion-ordered sequence, all views over the same set. It is
// a disposable cache — constructed empty, bulk-loaded from storage, and on
// any out-of-band write cleared and rebuilt rather than diffed.
type Directory struct {
	byID       map[int64]*User
	byUsername map[string]*User
	ordered    []*User
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	d := &Directory{}
	d.Clear()
	return d
}

// Clear empties all three views. Durable storage is untouched.
func (d *Directory) Clear() {
	d.byID = make(map[int64]*User)
	d.byUsername = make(map[string]*User)
	d.ordered = d.ordered[:0]
}

// Add inserts a record into every view. A record with an already-indexed
// username replaces the earlier one in the username map (last write wins);
// uniqueness is enforced by storage, not here.
func (d *Directory) Add(u *User) {
	d.byID[u.ID] = u
	d.byUsername[u.Username] = u
	d.ordered = append(d.ordered, u)
}

// Len returns the number of records in insertion order.
func (d *Directory) Len() int {
	return len(d.ordered)
}

// Get looks up a record by the selector. Returns ErrUserNotFound when
// absent, ErrInvalidArgument when the selector is malformed.
func (d *Directory) Get(sel Selector) (*User, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}

	if sel.ID != nil {
		if u, ok := d.byID[*sel.ID]; ok {
			return u, nil
		}
		return nil, ErrUserNotFound
	}

	if u, ok := d.byUsername[NormalizeUsername(*sel.Username)]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

// Usernames returns every indexed username ordered by id ascending.
// Gated at LevelReadUsers.
func (d *Directory) Usernames(p Principal) ([]string, error) {
	if err := Require(p, LevelReadUsers); err != nil {
		return nil, err
	}

	users := make([]*User, len(d.ordered))
	copy(users, d.ordered)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names, nil
}

// Login authenticates a password against the record the selector names and
// returns a Principal carrying the record's level as of now.
//
// The two failure modes stay distinct: a failed lookup is re-wrapped with
// "invalid id/username" framing but still matches ErrUserNotFound, and is
// never reported as a wrong password; a found record with a non-verifying
// password is ErrInvalidCredentials.
func (d *Directory) Login(password string, sel Selector) (Principal, error) {
	u, err := d.Get(sel)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Principal{}, fmt.Errorf("invalid %s: %w", sel, ErrUserNotFound)
		}
		return Principal{}, err
	}

	ok, err := VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return Principal{}, fmt.Errorf("verifying password for %q: %w", u.Username, err)
	}
	if !ok {
		return Principal{}, ErrInvalidCredentials
	}

	return Principal{ID: u.ID, Username: u.Username, Level: u.Level}, nil
}
