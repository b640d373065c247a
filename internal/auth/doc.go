// Package auth provides user authentication and permission gating for the
// scancore backend.
//
// It implements:
//   - Argon2id password hashing in PHC string format
//   - A ranked integer permission scale (none → full) compared numerically
//   - Explicit gate-then-call access control: guarded operations take a
//     Principal argument and check it with Require before doing anything
//   - An in-memory user directory rebuilt wholesale from SQLite storage
//
// The directory is a read-optimised cache, never the source of truth. It is
// repopulated by a full clear-and-reload; there is no incremental
// invalidation. A refresh is O(total users), which is acceptable because the
// target deployment is a single local desktop with a handful of accounts.
//
// Nothing in this package is safe for concurrent use. The application runs a
// single logical session; callers sharing a store across goroutines must
// serialise access themselves.
package auth
