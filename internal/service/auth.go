// Package service resolves the credential of the user whose session is
// locked, delegating the password database to an AuthRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"os/user"
	"strconv"

	"github.com/atinyakov/xlocker/internal/models"
)

// MinHashLength is the shortest password field that can hold a real hash.
// Anything shorter means the account has no usable password.
const MinHashLength = 13

// ErrNoPassword is returned when the account has no usable password. The
// locker must not start in that case, since nothing could unlock it.
var ErrNoPassword = errors.New("password has no pwd")

// AuthRepository defines the password database operations required by the
// service.
type AuthRepository interface {
	// UserExists reports whether the database has an entry for login.
	UserExists(ctx context.Context, login string) (bool, error)
	// PasswordHash returns the encrypted password field for login.
	// ctx carries deadlines and cancellation signals.
	PasswordHash(ctx context.Context, login string) (string, error)
}

// Service resolves accounts by delegating to an AuthRepository.
type Service struct {
	// repo reads the password database.
	repo AuthRepository
	// lookupUser returns the account entry for a numeric uid.
	lookupUser func(uid string) (*user.User, error)
}

// NewAuthService constructs a new Service using the provided repository.
func NewAuthService(repo AuthRepository) *Service {
	return &Service{repo: repo, lookupUser: user.LookupId}
}

// Account resolves the account with the given real uid and validates its
// password hash. The returned account always carries a usable hash.
func (s *Service) Account(ctx context.Context, uid int) (*models.Account, error) {
	u, err := s.lookupUser(strconv.Itoa(uid))
	if err != nil {
		return nil, fmt.Errorf("password entry for uid not found: %w", err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return nil, fmt.Errorf("invalid gid %q for %s: %w", u.Gid, u.Username, err)
	}

	exists, err := s.repo.UserExists(ctx, u.Username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no entry for %s", ErrNoPassword, u.Username)
	}

	hash, err := s.repo.PasswordHash(ctx, u.Username)
	if err != nil {
		return nil, err
	}
	if err := ValidateHash(hash); err != nil {
		return nil, err
	}
	return &models.Account{Login: u.Username, UID: uid, GID: gid, PasswordHash: hash}, nil
}

// ValidateHash rejects password fields that cannot authenticate anyone:
// empty or short fields and locked accounts ('!' or '*' prefix).
func ValidateHash(hash string) error {
	if len(hash) < MinHashLength {
		return ErrNoPassword
	}
	if hash[0] == '!' || hash[0] == '*' {
		return fmt.Errorf("%w: account locked", ErrNoPassword)
	}
	return nil
}
