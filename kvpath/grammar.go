package kvpath

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// nolint:gochecknoglobals
var (
	Lexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[^."\[\]\s]+`},
		{Name: "Punct", Pattern: `[.\[\]]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	PathParser = participle.MustBuild[Path](
		participle.Lexer(Lexer),
		participle.Unquote("String"),
		participle.Elide("Whitespace"),
	)
)

// Path is a dotted sequence of steps, e.g. `base.groups[2].name`.
type Path struct {
	Steps []*Step `parser:"@@ ( '.' @@ )*"`
}

// Step selects the members of the current nodes named Key. Index picks
// one occurrence among the members of each parent, counting from 1.
type Step struct {
	Key   string `parser:"( @Ident | @String )"`
	Index *int   `parser:"( '[' @Ident ']' )?"`
}
