package transcode

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

/*
Package transcode converts text between the encodings used on either side of
the directory-service boundary: the service speaks EBCDIC (IBM-037), callers
speak ISO8859-1 or UTF-8, and the key/value tree works in UTF-8.
*/

////////////////////////////////////////////////////////////////////////////////

// CCSID is a coded character set identifier.
type CCSID uint16

const (
	// IBM037 is EBCDIC US/Canada.
	IBM037 CCSID = 37
	// ISO8859_1 is Latin-1.
	ISO8859_1 CCSID = 819
	// UTF8 is the working encoding of the key/value tree.
	UTF8 CCSID = 1208

	EBCDIC = IBM037
	ASCII  = ISO8859_1
)

// String returns the conventional name of the character set.
func (c CCSID) String() string {
	switch c {
	case IBM037:
		return "IBM-037"
	case ISO8859_1:
		return "ISO8859-1"
	case UTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("CCSID(%d)", uint16(c))
	}
}

// Blank returns the encoding of a space character in c.
func (c CCSID) Blank() byte {
	if c == IBM037 {
		return 0x40
	}
	return ' '
}

func lookup(c CCSID) (encoding.Encoding, bool) {
	switch c {
	case IBM037:
		return charmap.CodePage037, true
	case ISO8859_1:
		return charmap.ISO8859_1, true
	case UTF8:
		return nil, true
	default:
		return nil, false
	}
}

// Converter converts byte strings from one character set to another. A
// Converter holds no per-call state, and can be reused for any number of
// conversions.
type Converter struct {
	from    CCSID
	to      CCSID
	fromEnc encoding.Encoding
	toEnc   encoding.Encoding
}

// NewConverter returns a converter from one character set to another. It
// returns an UnsupportedPairError if either side is unknown.
func NewConverter(from, to CCSID) (*Converter, error) {
	fromEnc, ok := lookup(from)
	if !ok {
		return nil, UnsupportedPairError{From: from, To: to}
	}
	toEnc, ok := lookup(to)
	if !ok {
		return nil, UnsupportedPairError{From: from, To: to}
	}
	return &Converter{from: from, to: to, fromEnc: fromEnc, toEnc: toEnc}, nil
}

// Convert returns src converted to the converter's target character set.
// The result never aliases src.
func (c *Converter) Convert(src []byte) ([]byte, error) {
	if c.from == c.to {
		if c.from == UTF8 && !utf8.Valid(src) {
			return nil, c.invalidUTF8(src)
		}
		return append([]byte{}, src...), nil
	}
	text, err := c.decode(src)
	if err != nil {
		return nil, err
	}
	if c.toEnc == nil {
		return nonNil(text), nil
	}
	out, err := c.toEnc.NewEncoder().Bytes(text)
	if err != nil {
		return nil, EncodingError{
			From:   c.from,
			To:     c.to,
			Offset: c.firstUnencodable(text),
			Err:    err,
		}
	}
	return nonNil(out), nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// decode returns src as UTF-8.
func (c *Converter) decode(src []byte) ([]byte, error) {
	if c.fromEnc == nil {
		if !utf8.Valid(src) {
			return nil, c.invalidUTF8(src)
		}
		return src, nil
	}
	text, err := c.fromEnc.NewDecoder().Bytes(src)
	if err != nil {
		return nil, EncodingError{From: c.from, To: c.to, Offset: -1, Err: err}
	}
	return text, nil
}

func (c *Converter) invalidUTF8(src []byte) error {
	offset := 0
	for offset < len(src) {
		r, size := utf8.DecodeRune(src[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	return EncodingError{From: c.from, To: c.to, Offset: offset, Err: ErrInvalidUTF8}
}

// firstUnencodable returns the byte offset in text of the first rune the
// target character set cannot represent, or -1.
func (c *Converter) firstUnencodable(text []byte) int {
	encoder := c.toEnc.NewEncoder()
	for offset, r := range string(text) {
		if _, err := encoder.String(string(r)); err != nil {
			return offset
		}
	}
	return -1
}

// Convert converts src from one character set to another.
func Convert(src []byte, from, to CCSID) ([]byte, error) {
	c, err := NewConverter(from, to)
	if err != nil {
		return nil, err
	}
	return c.Convert(src)
}
