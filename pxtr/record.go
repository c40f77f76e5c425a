package pxtr

import (
	"fmt"

	"github.com/zkiln/radmin/util"
)

// FieldType is the type word of a field descriptor.
type FieldType uint16

// Field type bits.
const (
	FieldRepeatMember FieldType = 0x8000
	FieldReserved     FieldType = 0x4000
	FieldBoolean      FieldType = 0x2000
	FieldRepeatHeader FieldType = 0x1000
)

// Field flag bits.
const (
	FieldFlagTrue       uint32 = 0x80000000
	FieldFlagOutputOnly uint32 = 0x40000000
)

// Record is a profile extract record with every descriptor resolved. Names
// and data are the raw EBCDIC bytes from the record.
type Record struct {
	Header   Header
	Profile  []byte
	Segments []Segment
}

// Segment is one segment of a record.
type Segment struct {
	Name   []byte
	Flags  uint32
	Fields []Field
}

// Field is one field of a segment. Data is set for character fields. A
// repeat header carries its member fields in Groups, one slice per group.
type Field struct {
	Name   []byte
	Type   FieldType
	Flags  uint32
	Data   []byte
	Groups [][]Field
}

// IsBoolean reports whether the field is a flag field.
func (f Field) IsBoolean() bool {
	return f.Type&FieldBoolean != 0
}

// IsRepeatHeader reports whether the field heads a repeat group.
func (f Field) IsRepeatHeader() bool {
	return f.Type&FieldRepeatHeader != 0
}

// Value reports the truth value of a flag field.
func (f Field) Value() bool {
	return f.Flags&FieldFlagTrue != 0
}

type rawField struct {
	name   []byte
	typ    FieldType
	flags  uint32
	length int32
	offset int32
	at     int
}

// Parse resolves the descriptors of record. Every structure and datum is
// checked against both the slice and the buffer length declared in the
// header.
func Parse(record []byte) (*Record, error) {
	h, err := ParseHeader(record)
	if err != nil {
		return nil, err
	}
	limit := int(h.BufferLen)
	if limit < HeaderSize || limit > len(record) {
		return nil, BoundsError{What: "record", Offset: 0, Length: limit, Limit: len(record)}
	}
	profile, ok := util.Span(record, HeaderSize, int(h.ProfileNameLen), limit)
	if !ok {
		return nil, BoundsError{What: "profile name", Offset: HeaderSize, Length: int(h.ProfileNameLen), Limit: limit}
	}
	if h.Segments < 0 {
		return nil, MalformedRecordError{Offset: 40, Reason: fmt.Sprintf("segment count %d", h.Segments)}
	}
	r := &Record{Header: h, Profile: profile}
	offset := HeaderSize + len(profile)
	for i := 0; i < int(h.Segments); i++ {
		segment, err := parseSegment(record, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to parse segment %d: %w", i+1, err)
		}
		r.Segments = append(r.Segments, segment)
		offset += SegmentDescriptorSize
	}
	return r, nil
}

func parseSegment(record []byte, offset, limit int) (Segment, error) {
	s := Segment{}
	data, ok := util.Span(record, offset, SegmentDescriptorSize, limit)
	if !ok {
		return s, BoundsError{What: "segment descriptor", Offset: offset, Length: SegmentDescriptorSize, Limit: limit}
	}
	var count, first int32
	s.Name = data[:NameSize]
	util.ReadU32(data[8:], &s.Flags)
	util.ReadI32(data[12:], &count)
	util.ReadI32(data[20:], &first)
	if count < 0 {
		return s, MalformedRecordError{Offset: offset + 12, Reason: fmt.Sprintf("field count %d", count)}
	}
	if _, ok := util.Span(record, int(first), int(count)*FieldDescriptorSize, limit); !ok {
		return s, BoundsError{What: "field descriptors", Offset: int(first), Length: int(count) * FieldDescriptorSize, Limit: limit}
	}
	raws := make([]rawField, 0, count)
	for i := 0; i < int(count); i++ {
		at := int(first) + i*FieldDescriptorSize
		raw, err := readField(record, at, limit)
		if err != nil {
			return s, err
		}
		raws = append(raws, raw)
	}
	fields, err := resolveFields(record, raws, limit)
	if err != nil {
		return s, err
	}
	s.Fields = fields
	return s, nil
}

func readField(record []byte, at, limit int) (rawField, error) {
	f := rawField{at: at}
	data, ok := util.Span(record, at, FieldDescriptorSize, limit)
	if !ok {
		return f, BoundsError{What: "field descriptor", Offset: at, Length: FieldDescriptorSize, Limit: limit}
	}
	var typ uint16
	f.name = data[:NameSize]
	util.ReadU16(data[8:], &typ)
	util.ReadU32(data[12:], &f.flags)
	util.ReadI32(data[16:], &f.length)
	util.ReadI32(data[24:], &f.offset)
	f.typ = FieldType(typ)
	return f, nil
}

// resolveFields turns raw descriptors into fields, gathering the members
// that follow each repeat header into its groups.
func resolveFields(record []byte, raws []rawField, limit int) ([]Field, error) {
	fields := []Field{}
	for i := 0; i < len(raws); i++ {
		raw := raws[i]
		if raw.typ&FieldRepeatHeader == 0 {
			field, err := resolveField(record, raw, limit)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			continue
		}
		groups, elements := int(raw.length), int(raw.offset)
		if groups < 0 || elements < 0 || groups*elements > len(raws)-i-1 {
			return nil, MalformedRecordError{
				Offset: raw.at,
				Reason: fmt.Sprintf("repeat field of %d groups of %d elements exceeds the %d remaining fields",
					groups, elements, len(raws)-i-1),
			}
		}
		if elements == 0 && groups > 0 {
			return nil, MalformedRecordError{
				Offset: raw.at,
				Reason: fmt.Sprintf("repeat field of %d groups has no elements", groups),
			}
		}
		header := Field{Name: raw.name, Type: raw.typ, Flags: raw.flags, Groups: make([][]Field, 0, groups)}
		next := i + 1
		for g := 0; g < groups; g++ {
			members := make([]Field, 0, elements)
			for e := 0; e < elements; e++ {
				member, err := resolveField(record, raws[next], limit)
				if err != nil {
					return nil, err
				}
				members = append(members, member)
				next++
			}
			header.Groups = append(header.Groups, members)
		}
		fields = append(fields, header)
		i = next - 1
	}
	return fields, nil
}

func resolveField(record []byte, raw rawField, limit int) (Field, error) {
	f := Field{Name: raw.name, Type: raw.typ, Flags: raw.flags}
	if raw.typ&FieldRepeatHeader != 0 {
		return f, MalformedRecordError{Offset: raw.at, Reason: "nested repeat field"}
	}
	if f.IsBoolean() {
		return f, nil
	}
	data, ok := util.Span(record, int(raw.offset), int(raw.length), limit)
	if !ok {
		return f, BoundsError{What: "field data", Offset: int(raw.offset), Length: int(raw.length), Limit: limit}
	}
	f.Data = data
	return f, nil
}

// ProfileName returns the record's profile name in the working encoding.
func (r *Record) ProfileName() (string, error) {
	return decodeName(r.Profile)
}

// BaseSegmentOnly returns a copy of record that declares only its first
// segment. The descriptors and data of the other segments stay in the buffer
// but are no longer reachable.
func BaseSegmentOnly(record []byte) ([]byte, error) {
	h, err := ParseHeader(record)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(record))
	copy(out, record)
	if h.Segments > 1 {
		util.I32(out[40:], 1)
	}
	return out, nil
}
