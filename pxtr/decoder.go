package pxtr

import (
	"context"
	"fmt"

	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/transcode"
	"github.com/zkiln/radmin/util/log"
)

// Decode converts a profile extract record to a tree. The tree starts with
// "class" and "profile" members, followed by one nested node per segment.
// Character fields become text members, flag fields become "true" or "false",
// and each group of a repeat field becomes a nested node under the repeat
// field's name.
func Decode(ctx context.Context, record []byte) (*kv.Tree, error) {
	r, err := Parse(record)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	tree, err := r.Tree()
	if err != nil {
		return nil, err
	}
	log.Debugw(ctx, "decoded record",
		"class", r.Header.Class,
		"segments", len(r.Segments),
		"nodes", tree.Len(),
	)
	return tree, nil
}

// Tree converts the record to a tree.
func (r *Record) Tree() (*kv.Tree, error) {
	tree := kv.New()
	class, err := encodeName(r.Header.Class)
	if err != nil {
		return nil, fmt.Errorf("failed to encode class name: %w", err)
	}
	if err := member(tree, []byte("class"), transcode.UTF8, func() error {
		return tree.AppendPaddedValue(class, transcode.IBM037, kv.KindText)
	}); err != nil {
		return nil, err
	}
	if err := member(tree, []byte("profile"), transcode.UTF8, func() error {
		return tree.AppendPaddedValue(r.Profile, transcode.IBM037, kv.KindText)
	}); err != nil {
		return nil, err
	}
	for _, segment := range r.Segments {
		if err := nest(tree, segment.Name, func() error {
			return appendFields(tree, segment.Fields)
		}); err != nil {
			return nil, fmt.Errorf("failed to decode segment %q: %w", displayName(segment.Name), err)
		}
	}
	return tree, nil
}

func appendFields(tree *kv.Tree, fields []Field) error {
	for _, field := range fields {
		var err error
		switch {
		case field.IsRepeatHeader():
			err = appendRepeat(tree, field)
		case field.IsBoolean():
			text := "false"
			if field.Value() {
				text = "true"
			}
			err = member(tree, field.Name, transcode.IBM037, func() error {
				return tree.AppendValue([]byte(text), transcode.UTF8, kv.KindText)
			})
		default:
			err = member(tree, field.Name, transcode.IBM037, func() error {
				return tree.AppendPaddedValue(field.Data, transcode.IBM037, kv.KindText)
			})
		}
		if err != nil {
			return fmt.Errorf("failed to decode field %q: %w", displayName(field.Name), err)
		}
	}
	return nil
}

// appendRepeat emits one nested node per group. A repeat field with no
// groups is emitted as a key without values.
func appendRepeat(tree *kv.Tree, header Field) error {
	if len(header.Groups) == 0 {
		_, err := tree.AppendKey(header.Name, transcode.IBM037, kv.ShapeNone)
		return err
	}
	for _, group := range header.Groups {
		if err := nest(tree, header.Name, func() error {
			return appendFields(tree, group)
		}); err != nil {
			return err
		}
	}
	return nil
}

func member(tree *kv.Tree, key []byte, enc transcode.CCSID, value func() error) error {
	if _, err := tree.AppendKey(key, enc, kv.ShapeNone); err != nil {
		return err
	}
	return value()
}

func nest(tree *kv.Tree, key []byte, body func() error) error {
	if _, err := tree.AppendKey(key, transcode.IBM037, kv.ShapeNested); err != nil {
		return err
	}
	if err := tree.EnterNest(); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return tree.ExitNest()
}

func displayName(name []byte) string {
	s, err := decodeName(name)
	if err != nil {
		return fmt.Sprintf("% x", name)
	}
	return s
}
