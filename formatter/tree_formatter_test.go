package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/mdomml/omml"
	"github.com/shibukawa/mdomml/testhelper"
)

func TestTreeFormatter_Format(t *testing.T) {
	formatter := NewTreeFormatter()

	tests := []struct {
		name     string
		expr     omml.Expr
		expected string
	}{
		{
			name:     "empty",
			expr:     nil,
			expected: "",
		},
		{
			name: "runs",
			expr: omml.Expr{omml.TextRun{Text: "x", Italic: true}, omml.TextRun{Text: "+"}},
			expected: testhelper.TrimIndent(t, `
				run "x" italic
				run "+"
			`),
		},
		{
			name: "n-ary operator with base",
			expr: omml.Expr{omml.NAryOperator{
				Symbol: "∑",
				Lower:  omml.ItalicRun("i"),
				Base: omml.Expr{omml.Subscript{
					Base: omml.ItalicRun("x"),
					Sub:  omml.ItalicRun("i"),
				}},
			}},
			expected: testhelper.TrimIndent(t, `
				nary "∑"
				  lower
				    run "i" italic
				  base
				    subscript
				      base
				        run "x" italic
				      sub
				        run "i" italic
			`),
		},
		{
			name: "square root hides degree",
			expr: omml.Expr{omml.Radical{Radicand: omml.ItalicRun("x")}},
			expected: testhelper.TrimIndent(t, `
				radical
				  radicand
				    run "x" italic
			`),
		},
		{
			name: "accent mark is escaped",
			expr: omml.Expr{omml.Accent{Base: omml.ItalicRun("y"), Mark: "\u0302"}},
			expected: testhelper.TrimIndent(t, `
				accent "\u0302"
				  base
				    run "y" italic
			`),
		},
		{
			name: "matrix",
			expr: omml.Expr{omml.Matrix{Rows: [][]omml.Expr{{omml.Run("1"), nil}}}},
			expected: testhelper.TrimIndent(t, `
				matrix
				  row 0
				    cell 0
				      run "1"
				    cell 1
			`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.Format(tt.expr))
		})
	}
}
