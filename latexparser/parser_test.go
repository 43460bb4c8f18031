package latexparser

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/mdomml/mathml"
)

// sexp renders a node as kind[attrs]:text(children...)
func sexp(n *mathml.Node) string {
	var builder strings.Builder

	builder.WriteString(n.Kind.String())

	if len(n.Attrs) > 0 {
		keys := make([]string, 0, len(n.Attrs))
		for key := range n.Attrs {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, key+"="+n.Attrs[key])
		}

		builder.WriteString("[" + strings.Join(pairs, ",") + "]")
	}

	if n.Text != "" {
		builder.WriteString(":" + n.Text)
	}

	if len(n.Children) > 0 {
		children := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			children = append(children, sexp(child))
		}

		builder.WriteString("(" + strings.Join(children, ",") + ")")
	}

	return builder.String()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "math",
		},
		{
			name:     "superscript",
			input:    "x^2",
			expected: "math(msup(mi:x,mn:2))",
		},
		{
			name:     "script argument takes a single digit",
			input:    "x^23",
			expected: "math(msup(mi:x,mn:2),mn:3)",
		},
		{
			name:     "sub and superscript",
			input:    "x_i^{2}",
			expected: "math(msubsup(mi:x,mi:i,mn:2))",
		},
		{
			name:     "digit runs and decimals",
			input:    "12 + 3.14",
			expected: "math(mn:12,mo:+,mn:3.14)",
		},
		{
			name:     "fraction",
			input:    `\frac{a+b}{c}`,
			expected: "math(mfrac(mrow(mi:a,mo:+,mi:b),mi:c))",
		},
		{
			name:     "fraction with digit arguments",
			input:    `\frac12`,
			expected: "math(mfrac(mn:1,mn:2))",
		},
		{
			name:     "fraction missing an argument",
			input:    `\frac{a}`,
			expected: "math(mfrac(mi:a))",
		},
		{
			name:     "binomial",
			input:    `\binom{n}{k}`,
			expected: "math(mfenced(mfrac[linethickness=0](mi:n,mi:k)))",
		},
		{
			name:     "sum with limits",
			input:    `\sum_{i=1}^{n} x_i`,
			expected: "math(munderover(mo:∑,mrow(mi:i,mo:=,mn:1),mi:n),msub(mi:x,mi:i))",
		},
		{
			name:     "limits switch is ignored",
			input:    `\sum\limits_{i} x`,
			expected: "math(munder(mo:∑,mi:i),mi:x)",
		},
		{
			name:     "lim takes limits",
			input:    `\lim_{n \to \infty} a_n`,
			expected: "math(munder(mi[mathvariant=normal]:lim,mrow(mi:n,mo:→,mi:∞)),msub(mi:a,mi:n))",
		},
		{
			name:     "named function",
			input:    `\sin x`,
			expected: "math(mi[mathvariant=normal]:sin,mi:x)",
		},
		{
			name:     "square root",
			input:    `\sqrt{x+1}`,
			expected: "math(msqrt(mi:x,mo:+,mn:1))",
		},
		{
			name:     "nth root",
			input:    `\sqrt[3]{x}`,
			expected: "math(mroot(mi:x,mn:3))",
		},
		{
			name:     "text keeps spaces",
			input:    `\text{if } x`,
			expected: "math(mtext:if ,mi:x)",
		},
		{
			name:     "upright wrapper merges letters",
			input:    `\mathrm{收益} + \operatorname{softmax}(z)`,
			expected: "math(mi[mathvariant=normal]:收益,mo:+,mi[mathvariant=normal]:softmax,mo:(,mi:z,mo:))",
		},
		{
			name:     "upright wrapper over structure",
			input:    `\mathrm{x_t}`,
			expected: "math(msub(mi[mathvariant=normal]:x,mi[mathvariant=normal]:t))",
		},
		{
			name:     "style wrapper",
			input:    `\mathbf{W}`,
			expected: "math(mstyle[mathvariant=bold](mi:W))",
		},
		{
			name:     "accent",
			input:    `\hat{y}`,
			expected: "math(mover[accent=true](mi:y,mo:^))",
		},
		{
			name:     "under brace",
			input:    `\underbrace{a}`,
			expected: "math(munder(mi:a,mo:⏟))",
		},
		{
			name:     "greek letters",
			input:    `\alpha + \Sigma`,
			expected: "math(mi:α,mo:+,mi[mathvariant=normal]:Σ)",
		},
		{
			name:     "symbols",
			input:    `a \leq b \cdot c`,
			expected: "math(mi:a,mo:≤,mi:b,mo:⋅,mi:c)",
		},
		{
			name:     "prime",
			input:    `f''(x)`,
			expected: "math(msup(mi:f,mo:′′),mo:(,mi:x,mo:))",
		},
		{
			name:     "left and right",
			input:    `\left( \frac{a}{b} \right]`,
			expected: "math(mfenced[close=],open=(](mfrac(mi:a,mi:b)))",
		},
		{
			name:     "empty delimiter",
			input:    `\left. x \right|`,
			expected: "math(mfenced[close=|,open=](mi:x))",
		},
		{
			name:     "spacing",
			input:    `a\,b\quad c\!d`,
			expected: "math(mi:a,mspace[width=0.167em],mi:b,mspace[width=1em],mi:c,mi:d)",
		},
		{
			name:     "unknown command is an upright identifier",
			input:    `\foo`,
			expected: "math(mi[mathvariant=normal]:foo)",
		},
		{
			name:     "group of one item is the item",
			input:    `{x}`,
			expected: "math(mi:x)",
		},
		{
			name:     "script without base",
			input:    `^{14}C`,
			expected: "math(msup(mrow,mn:14),mi:C)",
		},
		{
			name:     "big operator glyph takes limits",
			input:    `∑_i`,
			expected: "math(munder(mo:∑,mi:i))",
		},
		{
			name:  "pmatrix",
			input: `\begin{pmatrix} 1 & 0 \\ 0 & 1 \end{pmatrix}`,
			expected: "math(mfenced[close=),open=(](mtable(" +
				"mtr(mtd(mn:1),mtd(mn:0))," +
				"mtr(mtd(mn:0),mtd(mn:1)))))",
		},
		{
			name:  "cases with trailing row separator",
			input: `\begin{cases} 1 & x>0 \\ 0 & \text{otherwise} \\ \end{cases}`,
			expected: "math(mfenced[close=,open={](mtable(" +
				"mtr(mtd(mn:1),mtd(mi:x,mo:>,mn:0))," +
				"mtr(mtd(mn:0),mtd(mtext:otherwise)))))",
		},
		{
			name:     "array skips column format",
			input:    `\begin{array}{cc} a & b \end{array}`,
			expected: "math(mtable(mtr(mtd(mi:a),mtd(mi:b))))",
		},
		{
			name:     "top level rows",
			input:    `a \\ b`,
			expected: "math(mtable(mtr(mtd(mi:a)),mtr(mtd(mi:b))))",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node, err := Parse(test.input)
			require.NoError(t, err)

			assert.Equal(t, test.expected, sexp(node))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed group", `\frac{a}{b`},
		{"stray closing brace", `a}`},
		{"left without right", `\left( a`},
		{"right without left", `a \right)`},
		{"unclosed environment", `\begin{matrix} a`},
		{"mismatched environment", `\begin{matrix} a \end{pmatrix}`},
		{"unclosed root degree", `\sqrt[3{x}`},
		{"dangling backslash", `x\`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.input)
			assert.IsError(t, err, ErrSyntax)
		})
	}
}

func TestParserImplementsInterface(t *testing.T) {
	var parser interface {
		Parse(latex string) (*mathml.Node, error)
	} = Parser{}

	node, err := parser.Parse(`x`)
	require.NoError(t, err)
	assert.Equal(t, "math(mi:x)", sexp(node))
}
