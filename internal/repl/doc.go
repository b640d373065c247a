// Package repl implements the developer-facing line-oriented command
// dispatcher. It is a thin text front over the auth and product stores:
// it parses one command per line, invokes the matching operation with the
// session's current principal, and prints a user-facing message for any
// error instead of a raw diagnostic.
package repl
