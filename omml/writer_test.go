package omml

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, expr Expr, display bool) string {
	t.Helper()

	doc := etree.NewDocument()
	doc.SetRoot(Marshal(expr, display))

	output, err := doc.WriteToString()
	require.NoError(t, err)

	return output
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		display  bool
		expected string
	}{
		{
			name:     "italic run",
			expr:     ItalicRun("x"),
			expected: `<m:oMath><m:r><m:t>x</m:t></m:r></m:oMath>`,
		},
		{
			name:     "upright run",
			expr:     Run("sin"),
			expected: `<m:oMath><m:r><m:rPr><m:sty m:val="p"/></m:rPr><m:t>sin</m:t></m:r></m:oMath>`,
		},
		{
			name:     "space is preserved",
			expr:     Run(" "),
			expected: `<m:oMath><m:r><m:rPr><m:sty m:val="p"/></m:rPr><m:t xml:space="preserve"> </m:t></m:r></m:oMath>`,
		},
		{
			name:     "display wraps in paragraph",
			expr:     ItalicRun("x"),
			display:  true,
			expected: `<m:oMathPara><m:oMath><m:r><m:t>x</m:t></m:r></m:oMath></m:oMathPara>`,
		},
		{
			name:     "fraction",
			expr:     Expr{Fraction{Numerator: ItalicRun("a"), Denominator: ItalicRun("b")}},
			expected: `<m:oMath><m:f><m:fPr><m:type m:val="bar"/></m:fPr><m:num><m:r><m:t>a</m:t></m:r></m:num><m:den><m:r><m:t>b</m:t></m:r></m:den></m:f></m:oMath>`,
		},
		{
			name:     "square root hides degree",
			expr:     Expr{Radical{Radicand: ItalicRun("x")}},
			expected: `<m:oMath><m:rad><m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/><m:e><m:r><m:t>x</m:t></m:r></m:e></m:rad></m:oMath>`,
		},
		{
			name:     "superscript",
			expr:     Expr{Superscript{Base: ItalicRun("x"), Sup: Run("2")}},
			expected: `<m:oMath><m:sSup><m:e><m:r><m:t>x</m:t></m:r></m:e><m:sup><m:r><m:rPr><m:sty m:val="p"/></m:rPr><m:t>2</m:t></m:r></m:sup></m:sSup></m:oMath>`,
		},
		{
			name:     "accent",
			expr:     Expr{Accent{Base: ItalicRun("x"), Mark: "\u0302"}},
			expected: "<m:oMath><m:acc><m:accPr><m:chr m:val=\"\u0302\"/></m:accPr><m:e><m:r><m:t>x</m:t></m:r></m:e></m:acc></m:oMath>",
		},
		{
			name:     "delimited",
			expr:     Expr{Delimited{Open: "[", Close: "]", Inner: ItalicRun("x")}},
			expected: `<m:oMath><m:d><m:dPr><m:begChr m:val="["/><m:endChr m:val="]"/></m:dPr><m:e><m:r><m:t>x</m:t></m:r></m:e></m:d></m:oMath>`,
		},
		{
			name:     "limit below",
			expr:     Expr{LimitBelow{Base: ItalicRun("f"), Limit: ItalicRun("x")}},
			expected: `<m:oMath><m:limLow><m:e><m:r><m:t>f</m:t></m:r></m:e><m:lim><m:r><m:t>x</m:t></m:r></m:lim></m:limLow></m:oMath>`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, render(t, test.expr, test.display))
		})
	}
}

func TestMarshalNAryHidesMissingLimits(t *testing.T) {
	output := render(t, Expr{NAryOperator{Symbol: "∑", Lower: ItalicRun("i"), Base: ItalicRun("x")}}, false)

	assert.Contains(t, output, `<m:chr m:val="∑"/>`)
	assert.Contains(t, output, `<m:limLoc m:val="undOvr"/>`)
	assert.Contains(t, output, `<m:supHide m:val="1"/>`)
	assert.NotContains(t, output, `subHide`)
	assert.Contains(t, output, `<m:e><m:r><m:t>x</m:t></m:r></m:e></m:nary>`)
}

func TestMarshalMatrixPadsRows(t *testing.T) {
	matrix := Expr{Matrix{Rows: [][]Expr{
		{Run("1"), Run("0")},
		{Run("1")},
	}}}

	output := render(t, matrix, false)

	assert.Contains(t, output, `<m:count m:val="2"/>`)
	assert.Contains(t, output, `<m:mr><m:e><m:r><m:rPr><m:sty m:val="p"/></m:rPr><m:t>1</m:t></m:r></m:e><m:e/></m:mr>`)
}

func TestMarshalString(t *testing.T) {
	output, err := MarshalString(ItalicRun("x"), true)
	require.NoError(t, err)

	assert.Contains(t, output, `<m:oMathPara xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math">`)
}
