package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for authentication and user storage operations.
// All of them surface to the immediate caller; nothing here is retried.
var (
	// ErrInvalidCredentials means the account was found but the password
	// did not verify.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound means a lookup by id or username matched no record.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when storage rejects a duplicate
	// username on create.
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidArgument signals a malformed call contract, such as a
	// selector carrying neither or both of id and username.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrForbidden is the matchable kind for gate rejections; the concrete
	// error is always a *PermissionError.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrCorruptHash means a stored password hash could not be parsed.
	// A wrong password is never reported this way.
	ErrCorruptHash = errors.New("stored password hash is malformed")

	// ErrStorageUnavailable means the database connection is closed or
	// otherwise invalid. Not recoverable without reconnecting.
	ErrStorageUnavailable = errors.New("storage connection unavailable")
)

// PermissionError reports a gate rejection. It carries both the level the
// principal holds and the level the operation demands, for diagnostics.
type PermissionError struct {
	Given    Level
	Required Level
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("forbidden: level %d, required %d", e.Given, e.Required)
}

// Is lets errors.Is(err, ErrForbidden) match gate rejections.
func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}
