//go:build linux && cgo

package crypt

/*
#cgo LDFLAGS: -lcrypt
#include <crypt.h>
#include <stdlib.h>
#include <string.h>

static char *xl_crypt(const char *key, const char *setting, void *data) {
	return crypt_r(key, setting, (struct crypt_data *)data);
}
*/
import "C"

import (
	"errors"
	"unsafe"
)

// systemAvailable reports whether the platform crypt(3) can be used for
// schemes without a Go implementation (yescrypt, scrypt, DES).
const systemAvailable = true

var errSystemCrypt = errors.New("crypt(3) failed")

func systemCrypt(key []byte, setting string) (string, error) {
	ckey := C.CString(string(key))
	defer func() {
		C.memset(unsafe.Pointer(ckey), 0, C.size_t(len(key)))
		C.free(unsafe.Pointer(ckey))
	}()
	csetting := C.CString(setting)
	defer C.free(unsafe.Pointer(csetting))

	data := C.calloc(1, C.sizeof_struct_crypt_data)
	if data == nil {
		return "", errSystemCrypt
	}
	defer func() {
		C.memset(data, 0, C.sizeof_struct_crypt_data)
		C.free(data)
	}()

	out := C.xl_crypt(ckey, csetting, data)
	if out == nil {
		return "", errSystemCrypt
	}
	s := C.GoString(out)
	// libxcrypt signals failure with a string starting with '*'.
	if len(s) == 0 || s[0] == '*' {
		return "", errSystemCrypt
	}
	return s, nil
}
