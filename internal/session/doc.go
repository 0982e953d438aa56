// Package session holds the process-wide authentication state of the CLI.
//
// A Session is created once at process start with Load, which rehydrates the
// token persisted by a previous login. The backend transport reads the token
// through CurrentToken before every request; login and registration call
// SetToken, logout calls ClearToken. Every mutation is written through to the
// Store, so the next process sees the same state.
package session
