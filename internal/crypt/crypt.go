// Package crypt verifies passwords against crypt(3) style hash strings as
// found in the shadow database. The hash string encodes its own scheme and
// salt; a candidate is checked by recomputing the hash with those parameters.
package crypt

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	gcrypt "github.com/GehirnInc/crypt"
	// Register the SHA and MD5 based schemes with gcrypt.
	_ "github.com/GehirnInc/crypt/md5_crypt"
	_ "github.com/GehirnInc/crypt/sha256_crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnsupportedScheme is returned by Parse for hashes no backend can check.
var ErrUnsupportedScheme = errors.New("unsupported password hash scheme")

// Scheme names the algorithm family of a hash.
type Scheme string

const (
	SchemeMD5     Scheme = "md5-crypt"
	SchemeSHA256  Scheme = "sha256-crypt"
	SchemeSHA512  Scheme = "sha512-crypt"
	SchemeBcrypt  Scheme = "bcrypt"
	SchemeSystem  Scheme = "libcrypt"
	SchemeUnknown Scheme = "unknown"
)

// Hash is a parsed password hash. It never exposes the hash text.
type Hash struct {
	encoded string
	scheme  Scheme
	verify  func(encoded string, candidate []byte) bool
}

// Parse inspects encoded and selects the backend able to verify it.
func Parse(encoded string) (*Hash, error) {
	scheme := Detect(encoded)
	h := &Hash{encoded: encoded, scheme: scheme}

	switch scheme {
	case SchemeBcrypt:
		h.verify = verifyBcrypt
	case SchemeMD5, SchemeSHA256, SchemeSHA512:
		h.verify = verifyGehirn
	default:
		if !systemAvailable {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, prefix(encoded))
		}
		h.scheme = SchemeSystem
		h.verify = verifySystem
	}
	return h, nil
}

// Detect reports the scheme encoded in the hash prefix.
func Detect(encoded string) Scheme {
	switch {
	case strings.HasPrefix(encoded, "$2a$"),
		strings.HasPrefix(encoded, "$2b$"),
		strings.HasPrefix(encoded, "$2y$"):
		return SchemeBcrypt
	case strings.HasPrefix(encoded, "$1$"):
		return SchemeMD5
	case strings.HasPrefix(encoded, "$5$"):
		return SchemeSHA256
	case strings.HasPrefix(encoded, "$6$"):
		return SchemeSHA512
	default:
		return SchemeUnknown
	}
}

// Scheme reports the backend used by h.
func (h *Hash) Scheme() Scheme { return h.scheme }

// Verify reports whether candidate hashes to the stored value.
func (h *Hash) Verify(candidate []byte) bool {
	return h.verify(h.encoded, candidate)
}

// String keeps the hash out of logs and error messages.
func (h *Hash) String() string {
	return "crypt.Hash(" + string(h.scheme) + ")"
}

func verifyBcrypt(encoded string, candidate []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), candidate) == nil
}

func verifyGehirn(encoded string, candidate []byte) bool {
	if !gcrypt.IsHashSupported(encoded) {
		return false
	}
	return gcrypt.NewFromHash(encoded).Verify(encoded, candidate) == nil
}

func verifySystem(encoded string, candidate []byte) bool {
	out, err := systemCrypt(candidate, encoded)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(out), []byte(encoded)) == 1
}

// prefix returns the "$id$" part of a hash for diagnostics.
func prefix(encoded string) string {
	if !strings.HasPrefix(encoded, "$") {
		return "(no prefix)"
	}
	if i := strings.IndexByte(encoded[1:], '$'); i >= 0 {
		return encoded[:i+2]
	}
	return "(malformed)"
}
