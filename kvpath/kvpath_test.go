package kvpath_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/kvpath"
)

const document = `{
	"racf": {"func_type": 25},
	"prof_name": "BOB1",
	"base": {
		"name": "Bob Jones",
		"connects": [{"group": "SYS1"}, {"group": "DEV"}],
		"a.b": "dotted"
	},
	"tags": ["x", "y"]
}`

func parse(t *testing.T, data string) *kv.Tree {
	t.Helper()
	tree, err := kvjson.Parse(context.Background(), []byte(data))
	require.NoError(t, err)
	return tree
}

func texts(nodes []*kv.Node) []string {
	out := []string{}
	for _, n := range nodes {
		for _, v := range n.Values {
			out = append(out, v.Text)
		}
	}
	return out
}

func TestGet(t *testing.T) {
	tree := parse(t, document)
	cases := []struct {
		assertion string
		expr      string
		expected  []string
	}{
		{"nested member", "racf.func_type", []string{"25"}},
		{"case insensitive", "RACF.Func_Type", []string{"25"}},
		{"top level", "prof_name", []string{"BOB1"}},
		{"repeated key", "base.connects.group", []string{"SYS1", "DEV"}},
		{"indexed", "base.connects[2].group", []string{"DEV"}},
		{"quoted key", `base."a.b"`, []string{"dotted"}},
		{"vector", "tags", []string{"x", "y"}},
		{"no match", "base.missing", []string{}},
		{"index past end", "base.connects[3].group", []string{}},
		{"not top level", "name", []string{}},
		{"scalar has no members", "prof_name.x", []string{}},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			nodes, err := kvpath.Get(tree, c.expr)
			require.NoError(t, err)
			require.Equal(t, c.expected, texts(nodes))
		})
	}
}

func TestCompile(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		for _, expr := range []string{"racf.func_type", "base.connects[2].group", `base."a.b"`} {
			q, err := kvpath.Compile(expr)
			require.NoError(t, err)
			require.Equal(t, expr, q.String())
		}
	})

	t.Run("errors", func(t *testing.T) {
		for _, expr := range []string{"", "a..b", "a[", "a[0]", "a[x]", ".a", "a.b]"} {
			_, err := kvpath.Compile(expr)
			require.ErrorIs(t, err, kvpath.PathError{}, expr)
		}
	})
}

func TestExtract(t *testing.T) {
	tree := parse(t, document)

	t.Run("nested", func(t *testing.T) {
		nodes, err := kvpath.Get(tree, "base")
		require.NoError(t, err)
		out, err := kvpath.Extract(nodes)
		require.NoError(t, err)
		require.NoError(t, out.Validate())
		text, err := kvjson.Generate(out)
		require.NoError(t, err)
		require.Equal(t, `{
   "base": {
      "name": "Bob Jones",
      "connects": {
         "group": "SYS1"
      },
      "connects": {
         "group": "DEV"
      },
      "a.b": "dotted"
   }
}
`, string(text))
	})

	t.Run("scalars", func(t *testing.T) {
		nodes, err := kvpath.Get(tree, "base.connects.group")
		require.NoError(t, err)
		out, err := kvpath.Extract(nodes)
		require.NoError(t, err)
		text, err := kvjson.Generate(out)
		require.NoError(t, err)
		require.Equal(t, "{\n   \"group\": \"SYS1\",\n   \"group\": \"DEV\"\n}\n", string(text))
	})
}
