package testutils

import (
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/transcode"
)

/*
General purpose test utilitites.
*/

////////////////////////////////////////////////////////////////////////////////

// GetOpenPort returns an open port that can be used for testing.
func GetOpenPort() (int, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, fmt.Errorf("failed to get open port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// Flatten concatenates slices of the same type.
func Flatten[T any](slices ...[]T) []T {
	var result []T
	for _, s := range slices {
		result = append(result, s...)
	}
	return result
}

// U8b returns a byte slice containing a single uint8 value.
func U8b(v uint8) []byte {
	return []byte{v}
}

// U16b returns a byte slice containing a big-endian uint16 value.
func U16b(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

// U32b returns a byte slice containing a big-endian uint32 value.
func U32b(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// I32b returns a byte slice containing a big-endian int32 value.
func I32b(v int32) []byte {
	return U32b(uint32(v))
}

// Zeros returns n zero bytes.
func Zeros(n int) []byte {
	return make([]byte, n)
}

// EBCDIC returns s encoded in IBM-037.
func EBCDIC(t *testing.T, s string) []byte {
	t.Helper()
	out, err := transcode.Convert([]byte(s), transcode.UTF8, transcode.IBM037)
	require.NoError(t, err)
	return out
}

// Name returns s as an upper-case, blank padded, eight byte EBCDIC name.
func Name(t *testing.T, s string) []byte {
	t.Helper()
	require.LessOrEqual(t, len(s), 8)
	return EBCDIC(t, strings.ToUpper(s)+strings.Repeat(" ", 8-len(s)))
}
