package pxtr

import (
	"fmt"
	"strings"

	"github.com/zkiln/radmin/transcode"
	"github.com/zkiln/radmin/util"
)

// Parms is a profile extract request: the header fields a caller sets and
// the profile to extract. ProfileName is in the working encoding.
type Parms struct {
	Class       string
	ProfileName string
	Flags       uint32
	Version     uint8
	Subpool     uint8
}

// EncodeParms builds the parameter list for a request: the header followed
// by the upper-cased EBCDIC profile name.
func EncodeParms(p Parms) ([]byte, error) {
	if p.ProfileName == "" {
		return nil, ProfileNameError{Name: p.ProfileName, Reason: "empty"}
	}
	name, err := transcode.Convert([]byte(strings.ToUpper(p.ProfileName)), transcode.UTF8, transcode.IBM037)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile name: %w", err)
	}
	if len(name) >= MaxProfileNameLen {
		return nil, ProfileNameError{
			Name:   p.ProfileName,
			Reason: fmt.Sprintf("length %d, must be less than %d", len(name), MaxProfileNameLen),
		}
	}
	subpool := p.Subpool
	if subpool == 0 {
		subpool = DefaultSubpool
	}
	h := Header{
		Subpool:        subpool,
		Version:        p.Version,
		Class:          p.Class,
		ProfileNameLen: int32(len(name)),
		Flags:          p.Flags,
	}
	buf, err := h.Encode()
	if err != nil {
		return nil, err
	}
	return append(buf, name...), nil
}

// ParseParms reads a parameter list built by EncodeParms.
func ParseParms(buf []byte) (Parms, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Parms{}, err
	}
	data, ok := util.Span(buf, HeaderSize, int(h.ProfileNameLen), len(buf))
	if !ok {
		return Parms{}, BoundsError{What: "profile name", Offset: HeaderSize, Length: int(h.ProfileNameLen), Limit: len(buf)}
	}
	name, err := transcode.Convert(data, transcode.IBM037, transcode.UTF8)
	if err != nil {
		return Parms{}, fmt.Errorf("failed to decode profile name: %w", err)
	}
	return Parms{
		Class:       h.Class,
		ProfileName: string(name),
		Flags:       h.Flags,
		Version:     h.Version,
		Subpool:     h.Subpool,
	}, nil
}
