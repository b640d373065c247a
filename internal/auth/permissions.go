package auth

import "fmt"

// Level is a ranked permission tier. Levels form a simple total order and
// are compared numerically: a principal satisfies a gate iff its level is
// greater than or equal to the required level.
//
// The values resemble bitmask flags but are not a bitmask. LevelReadUsers
// does not carry LevelReadProducts as a distinct flag, and LevelWriteUsers
// (5) sits just above LevelWriteProducts (4) on the scale. The numbering is
// inherited from the persisted user_level column and must not be "fixed"
// into real flags — existing rows depend on the ordering semantics.
type Level int

// Permission levels, lowest to highest.
const (
	LevelNone          Level = 0
	LevelReadProducts  Level = 1
	LevelReadUsers     Level = 2
	LevelWriteProducts Level = 4
	LevelWriteUsers    Level = 5
	LevelFull          Level = 10
)

// String returns a stable human-readable name for known levels.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelReadProducts:
		return "read-products"
	case LevelReadUsers:
		return "read-users"
	case LevelWriteProducts:
		return "write-products"
	case LevelWriteUsers:
		return "write-users"
	case LevelFull:
		return "full"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Allowed reports whether the principal's level meets the required level.
// It is a pure predicate with no side effects.
func Allowed(p Principal, required Level) bool {
	return p.Level >= required
}

// Require is the gate invoked at the top of every guarded operation. It
// returns a *PermissionError when the principal's level is insufficient;
// guarded operations must return before touching any state, so a rejected
// call has no partial side effects.
func Require(p Principal, required Level) error {
	if !Allowed(p, required) {
		return &PermissionError{Given: p.Level, Required: required}
	}
	return nil
}
