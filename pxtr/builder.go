package pxtr

import (
	"fmt"
	"strings"

	"github.com/zkiln/radmin/transcode"
	"github.com/zkiln/radmin/util"
)

// Builder assembles profile extract records. Names and values are given in
// the working encoding; the builder converts them to EBCDIC and lays out the
// descriptors and data the way the directory service does.
type Builder struct {
	class    string
	profile  string
	flags    uint32
	segments []*builderSegment
	err      error
}

type builderSegment struct {
	name   string
	flags  uint32
	fields []builderField
}

type builderField struct {
	name     string
	typ      FieldType
	flags    uint32
	data     string
	groups   int
	elements int
}

// NewBuilder returns a builder for a record describing profile in class.
func NewBuilder(class, profile string) *Builder {
	return &Builder{class: class, profile: profile}
}

// Flags sets the header flags of the record.
func (b *Builder) Flags(flags uint32) *Builder {
	b.flags = flags
	return b
}

// Segment starts a new segment. Fields added afterwards belong to it.
func (b *Builder) Segment(name string) *Builder {
	b.segments = append(b.segments, &builderSegment{name: name})
	return b
}

// Char adds a character field to the current segment.
func (b *Builder) Char(name, value string) *Builder {
	return b.add(builderField{name: name, data: value})
}

// Bool adds a flag field to the current segment.
func (b *Builder) Bool(name string, value bool) *Builder {
	f := builderField{name: name, typ: FieldBoolean}
	if value {
		f.flags = FieldFlagTrue
	}
	return b.add(f)
}

// Repeat adds a repeat field to the current segment. Each group supplies one
// value per member name, in order.
func (b *Builder) Repeat(name string, members []string, groups ...[]string) *Builder {
	b.add(builderField{name: name, typ: FieldRepeatHeader, groups: len(groups), elements: len(members)})
	for i, group := range groups {
		if len(group) != len(members) {
			b.fail(fmt.Errorf("repeat field %s group %d has %d values for %d members", name, i+1, len(group), len(members)))
			return b
		}
		for j, value := range group {
			b.add(builderField{name: members[j], typ: FieldRepeatMember, data: value})
		}
	}
	return b
}

func (b *Builder) add(f builderField) *Builder {
	if len(b.segments) == 0 {
		b.fail(fmt.Errorf("field %s added before any segment", f.name))
		return b
	}
	s := b.segments[len(b.segments)-1]
	s.fields = append(s.fields, f)
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build lays out the record: header, profile name, segment descriptors,
// field descriptors, then field data.
func (b *Builder) Build() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	profile, err := transcode.Convert([]byte(strings.ToUpper(b.profile)), transcode.UTF8, transcode.IBM037)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile name: %w", err)
	}
	nfields := 0
	for _, s := range b.segments {
		nfields += len(s.fields)
	}
	descriptors := HeaderSize + len(profile) + len(b.segments)*SegmentDescriptorSize
	dataStart := descriptors + nfields*FieldDescriptorSize

	var data []byte
	fdescs := make([]byte, 0, nfields*FieldDescriptorSize)
	sdescs := make([]byte, 0, len(b.segments)*SegmentDescriptorSize)
	next := descriptors
	for _, s := range b.segments {
		sdesc := make([]byte, SegmentDescriptorSize)
		name, err := encodeName(s.name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode segment name: %w", err)
		}
		copy(sdesc, name)
		util.U32(sdesc[8:], s.flags)
		util.I32(sdesc[12:], int32(len(s.fields)))
		util.I32(sdesc[20:], int32(next))
		sdescs = append(sdescs, sdesc...)
		for _, f := range s.fields {
			fdesc := make([]byte, FieldDescriptorSize)
			name, err := encodeName(f.name)
			if err != nil {
				return nil, fmt.Errorf("failed to encode field name: %w", err)
			}
			copy(fdesc, name)
			util.U16(fdesc[8:], uint16(f.typ))
			util.U32(fdesc[12:], f.flags)
			switch {
			case f.typ&FieldRepeatHeader != 0:
				util.I32(fdesc[16:], int32(f.groups))
				util.I32(fdesc[24:], int32(f.elements))
			case f.typ&FieldBoolean != 0:
			default:
				value, err := transcode.Convert([]byte(f.data), transcode.UTF8, transcode.IBM037)
				if err != nil {
					return nil, fmt.Errorf("failed to encode field %s: %w", f.name, err)
				}
				util.I32(fdesc[16:], int32(len(value)))
				util.I32(fdesc[24:], int32(dataStart+len(data)))
				data = append(data, value...)
			}
			fdescs = append(fdescs, fdesc...)
		}
		next += len(s.fields) * FieldDescriptorSize
	}

	total := dataStart + len(data)
	h := Header{
		BufferLen:      int32(total),
		Subpool:        DefaultSubpool,
		Class:          b.class,
		ProfileNameLen: int32(len(profile)),
		Flags:          b.flags,
		Segments:       int32(len(b.segments)),
	}
	header, err := h.Encode()
	if err != nil {
		return nil, err
	}
	record := make([]byte, 0, total)
	record = append(record, header...)
	record = append(record, profile...)
	record = append(record, sdescs...)
	record = append(record, fdescs...)
	record = append(record, data...)
	return record, nil
}
