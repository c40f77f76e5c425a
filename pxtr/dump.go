package pxtr

import (
	"fmt"
	"io"
	"strings"

	"github.com/zkiln/radmin/transcode"
)

const bytesPerLine = 16

// Dump writes a hex dump of buf to w, sixteen bytes per line in groups of
// four, with the printable characters of each line shown in the given
// encoding alongside.
//
//	+0000  d7e7e3d9 000000a0 7f000000 e4e2c5d9  |PXTR .... "... USER|
func Dump(w io.Writer, buf []byte, enc transcode.CCSID) error {
	var conv *transcode.Converter
	if enc != transcode.UTF8 && enc != transcode.ISO8859_1 {
		var err error
		if conv, err = transcode.NewConverter(enc, transcode.ISO8859_1); err != nil {
			return fmt.Errorf("failed to render dump text: %w", err)
		}
	}
	for start := 0; start < len(buf); start += bytesPerLine {
		line := buf[start:min(start+bytesPerLine, len(buf))]
		text, err := printable(line, conv)
		if err != nil {
			return err
		}
		hex := &strings.Builder{}
		for i, b := range line {
			if i > 0 && i%4 == 0 {
				hex.WriteByte(' ')
			}
			fmt.Fprintf(hex, "%02x", b)
		}
		if _, err := fmt.Fprintf(w, "+%04x  %-35s  |%s|\n", start, hex.String(), text); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
	}
	return nil
}

// printable renders each byte of line as the character it encodes, or '.'
// where that is not printable ASCII. A nil converter reads bytes as ASCII.
func printable(line []byte, conv *transcode.Converter) (string, error) {
	out := &strings.Builder{}
	for i, b := range line {
		if i > 0 && i%4 == 0 {
			out.WriteByte(' ')
		}
		c := b
		if conv != nil {
			text, err := conv.Convert([]byte{b})
			if err != nil {
				return "", fmt.Errorf("failed to render dump text: %w", err)
			}
			c = text[0]
		}
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		out.WriteByte(c)
	}
	return out.String(), nil
}
