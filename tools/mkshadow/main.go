// Package main writes a one-entry shadow file for the current user, so the
// locker can be tried without root: xlocker -shadow ./shadow.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"

	gcrypt "github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	out := flag.String("out", "shadow", "path of the shadow file to write")
	login := flag.String("user", "", "login to write (default: current user)")
	scheme := flag.String("scheme", "sha512", "hash scheme: sha512, sha256, md5 or bcrypt")
	flag.Parse()

	name := *login
	if name == "" {
		u, err := user.Current()
		if err != nil {
			fmt.Fprintf(os.Stderr, "mkshadow: %v\n", err)
			os.Exit(1)
		}
		name = u.Username
	}

	password, err := readPassword(os.Stdin, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkshadow: read password: %v\n", err)
		os.Exit(1)
	}

	hash, err := hashPassword(*scheme, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkshadow: %v\n", err)
		os.Exit(1)
	}

	if err := writeShadow(*out, name, hash); err != nil {
		fmt.Fprintf(os.Stderr, "mkshadow: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Shadow entry for %s written to %s\n", name, *out)
}

// readPassword prompts on a terminal without echo, or reads one line from a
// pipe.
func readPassword(in *os.File, prompt io.Writer) ([]byte, error) {
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		pw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(prompt)
		return pw, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// hashPassword hashes password with a fresh random salt.
func hashPassword(scheme string, password []byte) (string, error) {
	var c gcrypt.Crypter
	switch scheme {
	case "sha512":
		c = sha512_crypt.New()
	case "sha256":
		c = sha256_crypt.New()
	case "md5":
		c = md5_crypt.New()
	case "bcrypt":
		h, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
		return string(h), err
	default:
		return "", fmt.Errorf("unknown scheme %q", scheme)
	}
	return c.Generate(password, nil)
}

// writeShadow writes a single shadow(5) line, readable by the owner only.
func writeShadow(path, login, hash string) error {
	line := fmt.Sprintf("%s:%s:0:0:99999:7:::\n", login, hash)
	return os.WriteFile(path, []byte(line), 0o600)
}
