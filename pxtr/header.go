package pxtr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/zkiln/radmin/transcode"
	"github.com/zkiln/radmin/util"
)

/*
Package pxtr reads and writes the profile extract control blocks of the
directory service. A request parameter list and the record returned for it
share the same 60-byte header; the record adds segment and field descriptors
behind the profile name. All integers are big-endian and every offset in a
record is relative to the start of the record.

	header (60 bytes)
	  0  eyecatcher[4]    "PXTR" in EBCDIC
	  4  buffer length    int32
	  8  subpool          uint8
	  9  version          uint8
	 12  class name[8]    EBCDIC, blank padded
	 20  name length      int32
	 36  flags            uint32
	 40  segment count    int32
	 60  profile name

	segment descriptor (40 bytes)
	  0  name[8]
	  8  flags            uint32
	 12  field count      int32
	 20  first field      int32 offset of the first field descriptor

	field descriptor (44 bytes)
	  0  name[8]
	  8  type             uint16
	 12  flags            uint32
	 16  length           int32, or repeat group count
	 24  offset           int32, or elements per repeat group
*/

////////////////////////////////////////////////////////////////////////////////

const (
	// HeaderSize is the length of the fixed record header.
	HeaderSize = 60
	// SegmentDescriptorSize is the length of a segment descriptor.
	SegmentDescriptorSize = 40
	// FieldDescriptorSize is the length of a field descriptor.
	FieldDescriptorSize = 44
	// MaxProfileNameLen bounds the length of a profile name. Names must be
	// strictly shorter.
	MaxProfileNameLen = 247
	// DefaultSubpool is the storage subpool requested for returned records.
	DefaultSubpool = 127
	// NameSize is the width of class, segment and field names.
	NameSize = 8

	eyecatcher = "PXTR"
)

// Parameter list flags.
const (
	FlagBypassCommandProcessor uint32 = 0x80000000
	FlagBaseSegmentOnly        uint32 = 0x40000000
	FlagEnforceFacilityCheck   uint32 = 0x20000000
	FlagGenericRequest         uint32 = 0x10000000
	FlagUpcaseName             uint32 = 0x08000000
	FlagProfileNameOnly        uint32 = 0x04000000
)

var ebcdicEyecatcher = []byte{0xd7, 0xe7, 0xe3, 0xd9}

// Header is the fixed header of a parameter list or record. Class is held in
// the working encoding with its padding removed.
type Header struct {
	BufferLen      int32
	Subpool        uint8
	Version        uint8
	Class          string
	ProfileNameLen int32
	Flags          uint32
	Segments       int32
}

// ParseHeader reads the header at the start of buf.
func ParseHeader(buf []byte) (Header, error) {
	h := Header{}
	data, ok := util.Span(buf, 0, HeaderSize, len(buf))
	if !ok {
		return h, BoundsError{What: "header", Offset: 0, Length: HeaderSize, Limit: len(buf)}
	}
	if !bytes.Equal(data[:4], ebcdicEyecatcher) {
		return h, fmt.Errorf("%w: % x", ErrBadEyecatcher, data[:4])
	}
	var name []byte
	offset := 4
	offset += util.ReadI32(data[offset:], &h.BufferLen)
	offset += util.ReadU8(data[offset:], &h.Subpool)
	offset += util.ReadU8(data[offset:], &h.Version)
	offset += 2
	name, offset = data[offset:offset+NameSize], offset+NameSize
	offset += util.ReadI32(data[offset:], &h.ProfileNameLen)
	offset += 12
	offset += util.ReadU32(data[offset:], &h.Flags)
	util.ReadI32(data[offset:], &h.Segments)
	class, err := decodeName(name)
	if err != nil {
		return h, fmt.Errorf("failed to decode class name: %w", err)
	}
	h.Class = class
	return h, nil
}

// Encode returns the 60-byte encoding of the header.
func (h Header) Encode() ([]byte, error) {
	name, err := encodeName(h.Class)
	if err != nil {
		return nil, fmt.Errorf("failed to encode class name: %w", err)
	}
	buf := make([]byte, HeaderSize)
	offset := copy(buf, ebcdicEyecatcher)
	offset += util.I32(buf[offset:], h.BufferLen)
	offset += util.U8(buf[offset:], h.Subpool)
	offset += util.U8(buf[offset:], h.Version)
	offset += 2
	offset += copy(buf[offset:], name)
	offset += util.I32(buf[offset:], h.ProfileNameLen)
	offset += 12
	offset += util.U32(buf[offset:], h.Flags)
	util.I32(buf[offset:], h.Segments)
	return buf, nil
}

// encodeName converts a name to an upper-case, blank padded EBCDIC name
// field.
func encodeName(name string) ([]byte, error) {
	if len(name) > NameSize {
		return nil, fmt.Errorf("name %q is longer than %d characters", name, NameSize)
	}
	out, err := transcode.Convert([]byte(strings.ToUpper(name)), transcode.UTF8, transcode.IBM037)
	if err != nil {
		return nil, err
	}
	padded := bytes.Repeat([]byte{transcode.IBM037.Blank()}, NameSize)
	copy(padded, out)
	return padded, nil
}

// decodeName converts an EBCDIC name field to the working encoding and
// removes its padding.
func decodeName(name []byte) (string, error) {
	out, err := transcode.Convert(name, transcode.IBM037, transcode.UTF8)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), " \x00"), nil
}
