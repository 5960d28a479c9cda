package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/xlocker/internal/crypt"
	"github.com/atinyakov/xlocker/internal/repository"
)

func TestHashPassword_Schemes(t *testing.T) {
	want := map[string]crypt.Scheme{
		"sha512": crypt.SchemeSHA512,
		"sha256": crypt.SchemeSHA256,
		"md5":    crypt.SchemeMD5,
		"bcrypt": crypt.SchemeBcrypt,
	}
	for scheme, detected := range want {
		hash, err := hashPassword(scheme, []byte("abc12"))
		if err != nil {
			t.Fatalf("hashPassword(%s): %v", scheme, err)
		}
		h, err := crypt.Parse(hash)
		if err != nil {
			t.Fatalf("Parse(%s hash): %v", scheme, err)
		}
		if h.Scheme() != detected {
			t.Errorf("scheme %s detected as %s", scheme, h.Scheme())
		}
		if !h.Verify([]byte("abc12")) || h.Verify([]byte("abc123")) {
			t.Errorf("scheme %s: verification mismatch", scheme)
		}
	}
}

func TestHashPassword_Unknown(t *testing.T) {
	if _, err := hashPassword("des", []byte("x")); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestWriteShadow_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shadow")
	hash, err := hashPassword("sha512", []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if err := writeShadow(path, "alice", hash); err != nil {
		t.Fatalf("writeShadow: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %v; want 0600", perm)
	}

	got, err := repository.NewShadowAuthRepository(path).PasswordHash(context.Background(), "alice")
	if err != nil {
		t.Fatalf("PasswordHash: %v", err)
	}
	if got != hash {
		t.Errorf("hash = %q; want %q", got, hash)
	}
}

func TestReadPassword_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.WriteString("hunter2\nignored\n")
	w.Close()
	defer r.Close()

	pw, err := readPassword(r, nil)
	if err != nil {
		t.Fatalf("readPassword: %v", err)
	}
	if string(pw) != "hunter2" {
		t.Errorf("password = %q; want %q", pw, "hunter2")
	}
}
