// Package repository provides read access to the system account databases
// used to authenticate the locked session.
package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultShadowPath is where the shadow password database lives.
const DefaultShadowPath = "/etc/shadow"

// ErrUserNotFound is returned when the database has no entry for a login.
var ErrUserNotFound = errors.New("user not found in shadow database")

// ShadowAuthRepository reads password hashes from a shadow(5) file.
type ShadowAuthRepository struct {
	// Path is the shadow file to read.
	Path string
}

// NewShadowAuthRepository creates a repository reading the given file.
// An empty path selects DefaultShadowPath.
func NewShadowAuthRepository(path string) *ShadowAuthRepository {
	if path == "" {
		path = DefaultShadowPath
	}
	return &ShadowAuthRepository{Path: path}
}

// UserExists reports whether the database has an entry for login.
func (r *ShadowAuthRepository) UserExists(ctx context.Context, login string) (bool, error) {
	_, err := r.PasswordHash(ctx, login)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// PasswordHash returns the encrypted password field for login.
// The file is read on every call; nothing is cached.
func (r *ShadowAuthRepository) PasswordHash(ctx context.Context, login string) (string, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return "", fmt.Errorf("open shadow database: %w", err)
	}
	defer f.Close()

	hash, err := lookupShadow(ctx, f, login)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.Path, err)
	}
	return hash, nil
}

// lookupShadow scans "login:hash:lastchg:..." lines for login.
func lookupShadow(ctx context.Context, rd io.Reader, login string) (string, error) {
	if login == "" || strings.ContainsAny(login, ":\n") {
		return "", ErrUserNotFound
	}

	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		name, rest, ok := strings.Cut(line, ":")
		if !ok || name != login {
			continue
		}
		hash, _, _ := strings.Cut(rest, ":")
		return hash, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read shadow database: %w", err)
	}
	return "", ErrUserNotFound
}
