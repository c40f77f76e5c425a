package kvjson_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/transcode"
)

// summarize renders each node as key@depth shape values, or end@depth for
// end markers.
func summarize(tree *kv.Tree) []string {
	out := []string{}
	for _, n := range tree.All() {
		if n.IsEndMarker() {
			out = append(out, fmt.Sprintf("end@%d", n.Depth))
			continue
		}
		values := make([]string, len(n.Values))
		for i, v := range n.Values {
			values[i] = v.Text
		}
		s := fmt.Sprintf("%s@%d %s", n.Key, n.Depth, n.Shape)
		if len(values) > 0 {
			s += " " + strings.Join(values, ",")
		}
		out = append(out, s)
	}
	return out
}

func parse(t *testing.T, doc string) *kv.Tree {
	t.Helper()
	tree, err := kvjson.Parse(context.Background(), []byte(doc))
	require.NoError(t, err)
	return tree
}

func TestParse(t *testing.T) {
	cases := []struct {
		assertion string
		input     string
		expected  []string
	}{
		{"empty object", `{}`, []string{}},
		{"scalar member", `{"a":"x"}`, []string{"a@1 scalar x"}},
		{
			"vector",
			`{"a":[1,2,3]}`,
			[]string{"a@1 vector 1,2,3"},
		},
		{
			"nested object",
			`{"racf":{"func_type":25,"prof_name":"BOB1"}}`,
			[]string{"racf@1 nested", "func_type@2 scalar 25", "prof_name@2 scalar BOB1", "end@1"},
		},
		{
			"two levels",
			`{"a":{"b":{"c":1}},"d":2}`,
			[]string{"a@1 nested", "b@2 nested", "c@3 scalar 1", "end@2", "end@1", "d@1 scalar 2"},
		},
		{
			"empty nested object",
			`{"a":{}}`,
			[]string{"a@1 nested", "end@1"},
		},
		{
			"literals are text",
			`{"t":true,"f":false,"n":null}`,
			[]string{"t@1 scalar true", "f@1 scalar false", "n@1 scalar null"},
		},
		{
			"array of objects",
			`{"a":[{"x":1},{"y":2}]}`,
			[]string{"a@1 nested", "x@2 scalar 1", "end@1", "a@1 nested", "y@2 scalar 2", "end@1"},
		},
		{
			"scalars around an object",
			`{"a":[1,{"x":1},2]}`,
			[]string{"a@1 scalar 1", "a@1 nested", "x@2 scalar 1", "end@1", "a@1 scalar 2"},
		},
		{
			"nested arrays flatten",
			`{"a":[[1,2],[],[3]]}`,
			[]string{"a@1 vector 1,2,3"},
		},
		{"empty array", `{"a":[]}`, []string{"a@1 none"}},
		{"escapes kept", `{"s":"a\"bé\n"}`, []string{`s@1 scalar a\"bé\n`}},
		{"number text kept", `{"n":-0.5e+10,"m":0,"k":12E-3}`, []string{"n@1 scalar -0.5e+10", "m@1 scalar 0", "k@1 scalar 12E-3"}},
		{"keys lower-cased", `{"Prof_Name":"x"}`, []string{"prof_name@1 scalar x"}},
		{"duplicate keys", `{"a":1,"a":2}`, []string{"a@1 scalar 1", "a@1 scalar 2"}},
		{"whitespace", " \t{\r\n \"a\" :\n 1 ,\"b\":[ 2 , 3 ] } \n", []string{"a@1 scalar 1", "b@1 vector 2,3"}},
		{"top-level scalar discarded", `42`, []string{}},
		{"top-level array discarded", `[{"a":1}, 2, "x"]`, []string{}},
		{"top-level literal discarded", `true`, []string{}},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			tree := parse(t, c.input)
			require.Equal(t, c.expected, summarize(tree))
			require.NoError(t, tree.Validate())
		})
	}

	t.Run("value kinds", func(t *testing.T) {
		tree := parse(t, `{"n":1,"s":"1","b":true}`)
		n, err := tree.Find(nil, "n", 1, true)
		require.NoError(t, err)
		require.NotNil(t, n.Scalar(kv.KindNumber))
		s, err := tree.Find(nil, "s", 1, true)
		require.NoError(t, err)
		require.True(t, s.Scalar(kv.KindText).Escaped)
		b, err := tree.Find(nil, "b", 1, true)
		require.NoError(t, err)
		require.Equal(t, "true", b.Scalar(kv.KindText).Text)
	})

	t.Run("nested lookup", func(t *testing.T) {
		tree := parse(t, `{"racf":{"func_type":25}}`)
		racf, err := tree.Find(nil, "racf", 1, true)
		require.NoError(t, err)
		require.Equal(t, kv.ShapeNested, racf.Shape)
		ft, err := tree.Find(racf, "func_type", 1, true)
		require.NoError(t, err)
		require.Equal(t, "25", ft.Scalar(kv.KindNumber).Text)
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		assertion string
		input     string
		exhausted bool
	}{
		{"missing close brace", `{"a":1`, true},
		{"empty input", ``, true},
		{"only whitespace", "  \n", true},
		{"unterminated string", `{"a":"xyz`, true},
		{"trailing comma", `{"a":1,}`, false},
		{"missing colon", `{"a" 1}`, false},
		{"unquoted key", `{a:1}`, false},
		{"fraction without digits", `{"a":1.}`, false},
		{"exponent without digits", `{"a":1e}`, false},
		{"leading zero", `{"a":01}`, false},
		{"bare minus", `{"a":-}`, false},
		{"bad escape", `{"a":"\x"}`, false},
		{"short unicode escape", `{"a":"\u12G4"}`, false},
		{"control character", "{\"a\":\"x\ty\"}", false},
		{"invalid utf-8", "{\"a\":\"\xff\"}", false},
		{"misspelled literal", `{"a":tru}`, false},
		{"trailing content", `{} x`, false},
		{"second document", `{"a":1}}`, false},
		{"unclosed array", `{"a":[1,2}`, false},
		{"unknown value", `{"a":@}`, false},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			tree, err := kvjson.Parse(context.Background(), []byte(c.input))
			require.Error(t, err)
			require.Nil(t, tree)
			require.True(t, kvjson.IsSyntaxError(err))
			require.Equal(t, c.exhausted, errors.Is(err, kvjson.ErrBufferExhausted))
		})
	}

	t.Run("position", func(t *testing.T) {
		_, err := kvjson.Parse(context.Background(), []byte("{\n  \"a\" 1}"))
		var serr *kvjson.SyntaxError
		require.ErrorAs(t, err, &serr)
		require.Equal(t, 8, serr.Offset)
		require.Equal(t, 2, serr.Line)
		require.Equal(t, 7, serr.Column)
		require.Equal(t, "':'", serr.Expected)
		require.Equal(t, "1}", serr.Near)
	})

	t.Run("nesting limit", func(t *testing.T) {
		doc := `{"a":` + strings.Repeat("[", kvjson.MaxNesting+1) + strings.Repeat("]", kvjson.MaxNesting+1) + "}"
		_, err := kvjson.Parse(context.Background(), []byte(doc))
		require.True(t, kvjson.IsSyntaxError(err))
	})
}

func TestGenerate(t *testing.T) {
	cases := []struct {
		assertion string
		input     string
		expected  string
	}{
		{"empty document", `{}`, "{\n}\n"},
		{"scalar", `{"a":"x"}`, "{\n   \"a\": \"x\"\n}\n"},
		{"vector", `{"a":[1,2,3]}`, "{\n   \"a\": [1, 2, 3]\n}\n"},
		{"empty array", `{"a":[]}`, "{\n   \"a\": []\n}\n"},
		{
			"nested",
			`{"racf":{"func_type":25,"prof_name":"BOB1"}}`,
			"{\n   \"racf\": {\n      \"func_type\": 25,\n      \"prof_name\": \"BOB1\"\n   }\n}\n",
		},
		{
			"empty nest",
			`{"a":{},"b":1}`,
			"{\n   \"a\": {\n   },\n   \"b\": 1\n}\n",
		},
		{"escapes written verbatim", `{"s":"a\"bé"}`, "{\n   \"s\": \"a\\\"bé\"\n}\n"},
		{"escaped key", `{"a\tb":1}`, "{\n   \"a\\tb\": 1\n}\n"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			out, err := kvjson.Generate(parse(t, c.input))
			require.NoError(t, err)
			require.Equal(t, c.expected, string(out))
			require.True(t, json.Valid(out))
		})
	}

	t.Run("plain text is escaped", func(t *testing.T) {
		tree := kv.New()
		_, err := tree.AppendKey([]byte(`na"me`), transcode.UTF8, kv.ShapeNone)
		require.NoError(t, err)
		require.NoError(t, tree.AppendValue([]byte("a\"b\\c\n<d>"), transcode.UTF8, kv.KindText))
		out, err := kvjson.Generate(tree)
		require.NoError(t, err)
		require.Equal(t, "{\n   \"na\\\"me\": \"a\\\"b\\\\c\\n<d>\"\n}\n", string(out))

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(out, &decoded))
		require.Equal(t, map[string]string{`na"me`: "a\"b\\c\n<d>"}, decoded)
	})

	t.Run("open nests are closed", func(t *testing.T) {
		tree := kv.New()
		_, err := tree.AppendKey([]byte("a"), transcode.UTF8, kv.ShapeNone)
		require.NoError(t, err)
		require.NoError(t, tree.EnterNest())
		_, err = tree.AppendKey([]byte("b"), transcode.UTF8, kv.ShapeNone)
		require.NoError(t, err)
		require.NoError(t, tree.AppendValue([]byte("1"), transcode.UTF8, kv.KindNumber))
		out, err := kvjson.Generate(tree)
		require.NoError(t, err)
		require.Equal(t, "{\n   \"a\": {\n      \"b\": 1\n   }\n}\n", string(out))
	})

	t.Run("depth jump", func(t *testing.T) {
		tree := kv.New()
		_, err := tree.AppendKey([]byte("a"), transcode.UTF8, kv.ShapeNone)
		require.NoError(t, err)
		require.NoError(t, tree.EnterNest())
		require.NoError(t, tree.EnterNest())
		_, err = tree.AppendKey([]byte("b"), transcode.UTF8, kv.ShapeNone)
		require.NoError(t, err)
		_, err = kvjson.Generate(tree)
		require.ErrorIs(t, err, kvjson.ErrMalformedTree)
	})

	t.Run("indentation is capped", func(t *testing.T) {
		levels := 40
		doc := strings.Repeat(`{"k":`, levels) + "1" + strings.Repeat("}", levels)
		out, err := kvjson.Generate(parse(t, doc))
		require.NoError(t, err)
		require.True(t, json.Valid(out))
		widest := 0
		for _, line := range strings.Split(string(out), "\n") {
			widest = max(widest, len(line)-len(strings.TrimLeft(line, " ")))
		}
		require.Equal(t, kvjson.MaxIndent, widest)
	})

	t.Run("writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, kvjson.NewWriter(buf).Write(parse(t, `{"a":1}`)))
		require.Equal(t, "{\n   \"a\": 1\n}\n", buf.String())
	})
}

func TestRoundTrip(t *testing.T) {
	docs := []string{
		`{}`,
		`{"a":1}`,
		`{"a":[1,2,3],"b":"x"}`,
		`{"racf":{"func_type":25,"prof_name":"BOB1","class":"USER"}}`,
		`{"a":{"b":{"c":{"d":"deep"}}},"e":[]}`,
		`{"a":[{"x":1},{"y":[true,false,null]}],"z":-1.5E+3}`,
		`{"s":"tab\tquote\"slash\/uni€"}`,
		`{"base":{"name":"Bob Jones","owner":"true","group":{"gname":"SYS1"}}}`,
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			first := parse(t, doc)
			out, err := kvjson.Generate(first)
			require.NoError(t, err)
			require.True(t, json.Valid(out), string(out))

			second := parse(t, string(out))
			require.Equal(t, summarize(first), summarize(second))

			again, err := kvjson.Generate(second)
			require.NoError(t, err)
			require.Equal(t, string(out), string(again))
		})
	}
	t.Run("tree built in code", func(t *testing.T) {
		tree := kv.New()
		member := func(key, value string, kind kv.Kind, padded bool) {
			_, err := tree.AppendKey([]byte(key), transcode.UTF8, kv.ShapeNone)
			require.NoError(t, err)
			if padded {
				require.NoError(t, tree.AppendPaddedValue([]byte(value), transcode.UTF8, kind))
				return
			}
			require.NoError(t, tree.AppendValue([]byte(value), transcode.UTF8, kind))
		}
		member("uid", "0000000012 ", kv.KindNumber, false)
		member("gid", "0000000012  ", kv.KindNumber, true)
		member("size", "-1.5e3", kv.KindNumber, false)
		member("owner", "true", kv.KindBoolean, false)
		member("name", "Bob    ", kv.KindText, true)
		member("bad", "1.", kv.KindNumber, false)

		out, err := kvjson.Generate(tree)
		require.NoError(t, err)
		require.Equal(t, `{
   "uid": "0000000012 ",
   "gid": "0000000012",
   "size": -1.5e3,
   "owner": "true",
   "name": "Bob",
   "bad": "1."
}
`, string(out))
		require.True(t, json.Valid(out))

		again, err := kvjson.Generate(parse(t, string(out)))
		require.NoError(t, err)
		require.Equal(t, string(out), string(again))
	})
}
