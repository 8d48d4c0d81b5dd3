// Package auth provides local account management for the library:
// registration, password authentication, SQLite-backed sessions, CSRF
// protection and login rate limiting.
package auth
