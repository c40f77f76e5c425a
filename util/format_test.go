package util_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/util"
)

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		assertion string
		input     uint64
		expected  string
	}{
		{"0 bytes", 0, "0 B"},
		{"record", 201, "201 B"},
		{"just below a kilobyte", 1023, "1023 B"},
		{"1 kilobyte", 1024, "1.0 KB"},
		{"fraction", 1536, "1.5 KB"},
		{"1 megabyte", 1 << 20, "1.0 MB"},
		{"cache default", 64 << 20, "64.0 MB"},
		{"1 exabyte", 1 << 60, "1.0 EB"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			require.Equal(t, c.expected, util.HumanBytes(c.input))
		})
	}
}

func TestPlural(t *testing.T) {
	cases := []struct {
		n        int
		expected string
	}{
		{0, "0 profiles"},
		{1, "1 profile"},
		{2, "2 profiles"},
	}
	for _, c := range cases {
		t.Run(c.expected, func(t *testing.T) {
			require.Equal(t, c.expected, util.Plural(c.n, "profile"))
		})
	}
}
