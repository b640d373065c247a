package auth

import (
	"regexp"
	"strings"
)

// usernamePattern defines the valid format for normalised usernames:
// lowercase alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{1,64}$`)

// NormalizeUsername lowercases and trims a username. All storage and lookup
// paths go through this, so "Alice" and "alice" always name the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// IsValidUsername checks a normalised username against the format rules.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// User is one persisted account: identity, credential hash, and permission
// level. The ID is assigned by storage on creation and stable thereafter.
// Records are treated as immutable after construction; ordering between two
// records is by ID ascending.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never serialised
	Level        Level  `json:"level"`

	// TwoFactor mirrors the nullable two_factor column. Two-factor
	// authentication is not implemented; the field is always empty.
	TwoFactor string `json:"-"`
}
