//go:build linux && cgo

package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemCrypt_SHA512(t *testing.T) {
	const hash = "$6$saltstring$svn8UoSVapNtMuq1ukKS4tPQd8iKwSMHWjl/O817G3uBnIFNjnQJuesI68u4OTLiBFdcbYEdFCoEOfaS35inz1"

	out, err := systemCrypt([]byte("Hello world!"), hash)
	require.NoError(t, err)
	assert.Equal(t, hash, out)
	assert.True(t, verifySystem(hash, []byte("Hello world!")))
	assert.False(t, verifySystem(hash, []byte("hello world!")))
}

func TestSystemCrypt_BadSetting(t *testing.T) {
	assert.False(t, verifySystem("$no$such$scheme", []byte("x")))
}
