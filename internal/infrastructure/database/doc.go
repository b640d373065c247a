// Package database manages the SQLite connection for scancore.
//
// It owns the single durable-storage connection: opening it with the right
// pragmas, applying embedded schema migrations, health checking, and closing
// it exactly once at shutdown. All table logic lives in the domain packages;
// this package only provides the connection and the schema lifecycle.
package database
