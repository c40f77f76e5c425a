package util

/*
Encoding utilities for the big-endian control blocks exchanged with the
directory service. The fixed-width Read and write functions do not check
lengths; callers locate their input with Span first, which does.
*/

import (
	"encoding/binary"
)

// Span returns the n bytes of buf starting at off, provided the whole range
// lies within the first limit bytes of buf. Negative offsets and lengths are
// rejected.
func Span(buf []byte, off, n, limit int) ([]byte, bool) {
	if limit > len(buf) {
		limit = len(buf)
	}
	if off < 0 || n < 0 || off > limit || n > limit-off {
		return nil, false
	}
	return buf[off : off+n], true
}

// ReadU8 reads a uint8 from src and stores it in x, returning the read length.
func ReadU8(src []byte, x *uint8) int {
	*x = src[0]
	return 1
}

// ReadU16 reads a big-endian uint16 from src and stores it in x, returning
// the read length.
func ReadU16(src []byte, x *uint16) int {
	*x = binary.BigEndian.Uint16(src)
	return 2
}

// ReadU32 reads a big-endian uint32 from src and stores it in x, returning
// the read length.
func ReadU32(src []byte, x *uint32) int {
	*x = binary.BigEndian.Uint32(src)
	return 4
}

// ReadI32 reads a big-endian two's complement int32 from src and stores it
// in x, returning the read length.
func ReadI32(src []byte, x *int32) int {
	*x = int32(binary.BigEndian.Uint32(src))
	return 4
}

// U8 writes a uint8 to dst and returns the written length.
func U8(dst []byte, src uint8) int {
	dst[0] = src
	return 1
}

// U16 writes a big-endian uint16 to dst and returns the written length.
func U16(dst []byte, src uint16) int {
	binary.BigEndian.PutUint16(dst, src)
	return 2
}

// U32 writes a big-endian uint32 to dst and returns the written length.
func U32(dst []byte, src uint32) int {
	binary.BigEndian.PutUint32(dst, src)
	return 4
}

// I32 writes a big-endian int32 to dst and returns the written length.
func I32(dst []byte, src int32) int {
	binary.BigEndian.PutUint32(dst, uint32(src))
	return 4
}
