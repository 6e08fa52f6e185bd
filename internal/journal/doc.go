// Package journal records the commands a console session runs.
//
// Every mutating sigil-admin command appends one entry describing what
// ran, against which organization, and how it ended. The journal is a
// local record for the operator, not an audit trail the gateway trusts;
// the gateway keeps its own server-side audit log.
//
// Entries live in a SQLite database under the XDG data directory
// (~/.local/share/sigil/console.db) opened in WAL mode. Appending is
// best-effort from the CLI's point of view: a journal failure is logged
// and never fails the command that triggered it.
//
// Use Open with ":memory:" for tests.
package journal
