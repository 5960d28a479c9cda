// Package models defines the core data structures shared by the locker
// packages.
package models

// Account is the user whose session is being locked.
type Account struct {
	// Login is the user name.
	Login string
	// UID and GID are the real user and group ids of the process.
	UID int
	GID int
	// PasswordHash is the crypt(3) hash from the shadow database. It must
	// never be logged.
	PasswordHash string
}
