package omml

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/mdomml/mathml"
)

func mi(text string) *mathml.Node { return mathml.Leaf(mathml.Identifier, text) }
func mn(text string) *mathml.Node { return mathml.Leaf(mathml.Number, text) }
func mo(text string) *mathml.Node { return mathml.Leaf(mathml.Operator, text) }

func el(kind mathml.Kind, children ...*mathml.Node) *mathml.Node {
	return mathml.New(kind, children...)
}

func TestConvertNodeKinds(t *testing.T) {
	tests := []struct {
		name     string
		input    *mathml.Node
		expected Expr
	}{
		{
			name:     "single letter identifier is italic",
			input:    mi("x"),
			expected: ItalicRun("x"),
		},
		{
			name:     "multi letter identifier is upright",
			input:    mi("sin"),
			expected: Run("sin"),
		},
		{
			name:     "normal variant identifier is upright",
			input:    mi("x").WithAttr("mathvariant", "normal"),
			expected: Run("x"),
		},
		{
			name:     "non-ASCII single letter is italic",
			input:    mi("α"),
			expected: ItalicRun("α"),
		},
		{
			name:     "number",
			input:    mn("42"),
			expected: Run("42"),
		},
		{
			name:     "text",
			input:    mathml.Leaf(mathml.Text, "if"),
			expected: Run("if"),
		},
		{
			name:     "space",
			input:    mathml.Leaf(mathml.Space, ""),
			expected: Run(" "),
		},
		{
			name:     "mapped operator",
			input:    mo("⋅"),
			expected: Run("·"),
		},
		{
			name:     "unmapped operator passes through",
			input:    mo("+"),
			expected: Run("+"),
		},
		{
			name:  "fraction",
			input: el(mathml.Fraction, mi("a"), mi("b")),
			expected: Expr{Fraction{
				Numerator:   ItalicRun("a"),
				Denominator: ItalicRun("b"),
			}},
		},
		{
			name:     "square root flattens every child",
			input:    el(mathml.Sqrt, mi("x"), mo("+"), mn("1")),
			expected: Expr{Radical{Radicand: Expr{TextRun{"x", true}, TextRun{"+", false}, TextRun{"1", false}}}},
		},
		{
			name:     "nth root",
			input:    el(mathml.Root, mi("x"), mn("3")),
			expected: Expr{Radical{Radicand: ItalicRun("x"), Degree: Run("3")}},
		},
		{
			name:     "malformed root degrades to square root",
			input:    el(mathml.Root, mi("x")),
			expected: Expr{Radical{Radicand: ItalicRun("x")}},
		},
		{
			name:     "superscript",
			input:    el(mathml.Sup, mi("x"), mn("2")),
			expected: Expr{Superscript{Base: ItalicRun("x"), Sup: Run("2")}},
		},
		{
			name:     "subscript",
			input:    el(mathml.Sub, mi("x"), mi("i")),
			expected: Expr{Subscript{Base: ItalicRun("x"), Sub: ItalicRun("i")}},
		},
		{
			name:     "sub and superscript",
			input:    el(mathml.SubSup, mi("x"), mi("i"), mn("2")),
			expected: Expr{SubSup{Base: ItalicRun("x"), Sub: ItalicRun("i"), Sup: Run("2")}},
		},
		{
			name:     "under with big operator",
			input:    el(mathml.Under, mo("Σ"), mi("X")),
			expected: Expr{NAryOperator{Symbol: "Σ", Lower: ItalicRun("X")}},
		},
		{
			name:     "under with lim",
			input:    el(mathml.Under, mi("lim"), el(mathml.Row, mi("n"), mo("→"), mo("∞"))),
			expected: Expr{NAryOperator{Symbol: "lim", Lower: Expr{TextRun{"n", true}, TextRun{"→", false}, TextRun{"∞", false}}}},
		},
		{
			name:     "underover with lim",
			input:    el(mathml.UnderOver, mi("lim"), mi("a"), mi("b")),
			expected: Expr{NAryOperator{Symbol: "lim", Lower: ItalicRun("a"), Upper: ItalicRun("b")}},
		},
		{
			name:     "under with ordinary base",
			input:    el(mathml.Under, mi("f"), mi("X")),
			expected: Expr{LimitBelow{Base: ItalicRun("f"), Limit: ItalicRun("X")}},
		},
		{
			name:     "over with spacing hat",
			input:    el(mathml.Over, mi("x"), mo("^")),
			expected: Expr{Accent{Base: ItalicRun("x"), Mark: "\u0302"}},
		},
		{
			name:     "over with combining tilde",
			input:    el(mathml.Over, mi("x"), mo("\u0303")),
			expected: Expr{Accent{Base: ItalicRun("x"), Mark: "\u0303"}},
		},
		{
			name:     "over with arrow",
			input:    el(mathml.Over, mi("v"), mo("→")),
			expected: Expr{Accent{Base: ItalicRun("v"), Mark: "\u20D7"}},
		},
		{
			name:     "over with macron",
			input:    el(mathml.Over, mi("x"), mo("\u00AF")),
			expected: Expr{Accent{Base: ItalicRun("x"), Mark: "\u0304"}},
		},
		{
			name:     "over with ordinary script",
			input:    el(mathml.Over, mi("x"), mi("k")),
			expected: Expr{LimitAbove{Base: ItalicRun("x"), Limit: ItalicRun("k")}},
		},
		{
			name:     "under over with big operator",
			input:    el(mathml.UnderOver, mo("∫"), mn("0"), mn("1")),
			expected: Expr{NAryOperator{Symbol: "∫", Lower: Run("0"), Upper: Run("1")}},
		},
		{
			name:     "under over without big operator degrades to sub and superscript",
			input:    el(mathml.UnderOver, mi("x"), mn("0"), mn("1")),
			expected: Expr{SubSup{Base: ItalicRun("x"), Sub: Run("0"), Sup: Run("1")}},
		},
		{
			name:     "fenced with default delimiters",
			input:    el(mathml.Fenced, mi("a"), mo(","), mi("b")),
			expected: Expr{Delimited{Open: "(", Close: ")", Inner: Expr{TextRun{"a", true}, TextRun{",", false}, TextRun{"b", true}}}},
		},
		{
			name:     "fenced with attributes",
			input:    el(mathml.Fenced, mi("x")).WithAttr("open", "{").WithAttr("close", ""),
			expected: Expr{Delimited{Open: "{", Close: "", Inner: ItalicRun("x")}},
		},
		{
			name: "table honors rows and cells only",
			input: el(mathml.Table,
				el(mathml.TableRow, el(mathml.TableCell, mn("1")), mi("junk"), el(mathml.TableCell, mn("0"))),
				mi("junk"),
				el(mathml.TableRow, el(mathml.TableCell, mn("0")), el(mathml.TableCell, mn("1"))),
			),
			expected: Expr{Matrix{Rows: [][]Expr{
				{Run("1"), Run("0")},
				{Run("0"), Run("1")},
			}}},
		},
		{
			name:     "style wrappers are transparent",
			input:    el(mathml.Style, el(mathml.Padded, el(mathml.Enclose, mi("x")))),
			expected: ItalicRun("x"),
		},
		{
			name:     "unknown kind flattens children",
			input:    &mathml.Node{Kind: mathml.Unknown, Tag: "semantics", Children: []*mathml.Node{mi("x"), mn("2")}},
			expected: Expr{TextRun{"x", true}, TextRun{"2", false}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Convert(test.input))
		})
	}
}

func TestConvertArityViolations(t *testing.T) {
	tests := []struct {
		name  string
		input *mathml.Node
	}{
		{"fraction with one child", el(mathml.Fraction, mi("a"))},
		{"fraction without children", el(mathml.Fraction)},
		{"superscript with one child", el(mathml.Sup, mi("x"))},
		{"superscript with three children", el(mathml.Sup, mi("x"), mn("1"), mn("2"))},
		{"subscript with one child", el(mathml.Sub, mi("x"))},
		{"sub and superscript with two children", el(mathml.SubSup, mi("x"), mi("i"))},
		{"root without children", el(mathml.Root)},
		{"under with one child", el(mathml.Under, mo("∑"))},
		{"over with one child", el(mathml.Over, mi("x"))},
		{"under over with two children", el(mathml.UnderOver, mo("∑"), mi("i"))},
		{"empty row", el(mathml.Row)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Zero(t, Convert(test.input))
		})
	}

	assert.Zero(t, Convert(nil))
}

func TestConvertNestedArityViolationKeepsSiblings(t *testing.T) {
	input := el(mathml.Math, mi("y"), mo("="), el(mathml.Fraction, mi("a")))

	assert.Equal(t, Expr{TextRun{"y", true}, TextRun{"=", false}}, Convert(input))
}

func TestConvertNAryTakesFollowingBase(t *testing.T) {
	// \sum_{i=1}^{n} x_i
	input := el(mathml.Math,
		el(mathml.UnderOver,
			mo("∑"),
			el(mathml.Row, mi("i"), mo("="), mn("1")),
			mi("n"),
		),
		el(mathml.Sub, mi("x"), mi("i")),
		mo("+"),
		mi("c"),
	)

	expected := Expr{
		NAryOperator{
			Symbol: "∑",
			Base:   Expr{Subscript{Base: ItalicRun("x"), Sub: ItalicRun("i")}},
			Lower:  Expr{TextRun{"i", true}, TextRun{"=", false}, TextRun{"1", false}},
			Upper:  ItalicRun("n"),
		},
		TextRun{"+", false},
		TextRun{"c", true},
	}

	assert.Equal(t, expected, Convert(input))
}

func TestConvertNAryDoesNotTakeOperator(t *testing.T) {
	input := el(mathml.Row, el(mathml.Under, mo("∑"), mi("i")), mo("="), mn("0"))

	expected := Expr{
		NAryOperator{Symbol: "∑", Lower: ItalicRun("i")},
		TextRun{"=", false},
		TextRun{"0", false},
	}

	assert.Equal(t, expected, Convert(input))
}

func TestConvertNormalizesClassificationText(t *testing.T) {
	decomposed := el(mathml.Under, mi("e\u0301"), mi("x"))
	assert.Equal(t, "\u00E9", firstText(decomposed.Children[0]))

	combining := el(mathml.Over, mi("x"), mathml.Leaf(mathml.Operator, "\u0302"))
	assert.Equal(t, Expr{Accent{Base: ItalicRun("x"), Mark: "\u0302"}}, Convert(combining))
}
