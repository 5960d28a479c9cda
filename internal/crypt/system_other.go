//go:build !linux || !cgo

package crypt

const systemAvailable = false

func systemCrypt(_ []byte, _ string) (string, error) {
	return "", ErrUnsupportedScheme
}
