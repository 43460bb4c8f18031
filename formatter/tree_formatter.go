// Package formatter renders equation trees as indented text for inspection.
package formatter

import (
	"strconv"
	"strings"

	"github.com/shibukawa/mdomml/omml"
)

// TreeFormatter formats equation trees one node per line
type TreeFormatter struct {
	indentSize int
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter() *TreeFormatter {
	return &TreeFormatter{
		indentSize: 2,
	}
}

// Format renders expr. Slot names are printed above their contents; absent slots are omitted.
func (f *TreeFormatter) Format(expr omml.Expr) string {
	var b strings.Builder
	f.expr(&b, expr, 0)

	return b.String()
}

func (f *TreeFormatter) expr(b *strings.Builder, expr omml.Expr, depth int) {
	for _, node := range expr {
		f.node(b, node, depth)
	}
}

type slot struct {
	name string
	expr omml.Expr
}

func (f *TreeFormatter) node(b *strings.Builder, node omml.Node, depth int) {
	switch n := node.(type) {
	case omml.TextRun:
		label := "run " + strconv.Quote(n.Text)
		if n.Italic {
			label += " italic"
		}

		f.line(b, depth, label)
	case omml.Fraction:
		f.compound(b, depth, "fraction", slot{"numerator", n.Numerator}, slot{"denominator", n.Denominator})
	case omml.Radical:
		f.compound(b, depth, "radical", slot{"degree", n.Degree}, slot{"radicand", n.Radicand})
	case omml.Superscript:
		f.compound(b, depth, "superscript", slot{"base", n.Base}, slot{"sup", n.Sup})
	case omml.Subscript:
		f.compound(b, depth, "subscript", slot{"base", n.Base}, slot{"sub", n.Sub})
	case omml.SubSup:
		f.compound(b, depth, "subsup", slot{"base", n.Base}, slot{"sub", n.Sub}, slot{"sup", n.Sup})
	case omml.NAryOperator:
		f.compound(b, depth, "nary "+strconv.Quote(n.Symbol), slot{"lower", n.Lower}, slot{"upper", n.Upper}, slot{"base", n.Base})
	case omml.LimitBelow:
		f.compound(b, depth, "limit-below", slot{"base", n.Base}, slot{"limit", n.Limit})
	case omml.LimitAbove:
		f.compound(b, depth, "limit-above", slot{"base", n.Base}, slot{"limit", n.Limit})
	case omml.Accent:
		f.compound(b, depth, "accent "+strconv.QuoteToASCII(n.Mark), slot{"base", n.Base})
	case omml.Delimited:
		f.compound(b, depth, "delimited "+strconv.Quote(n.Open)+" "+strconv.Quote(n.Close), slot{"inner", n.Inner})
	case omml.Matrix:
		f.line(b, depth, "matrix")

		for i, row := range n.Rows {
			f.line(b, depth+1, "row "+strconv.Itoa(i))

			for j, cell := range row {
				f.line(b, depth+2, "cell "+strconv.Itoa(j))
				f.expr(b, cell, depth+3)
			}
		}
	}
}

func (f *TreeFormatter) compound(b *strings.Builder, depth int, label string, slots ...slot) {
	f.line(b, depth, label)

	for _, s := range slots {
		if s.expr == nil {
			continue
		}

		f.line(b, depth+1, s.name)
		f.expr(b, s.expr, depth+2)
	}
}

func (f *TreeFormatter) line(b *strings.Builder, depth int, text string) {
	b.WriteString(strings.Repeat(" ", depth*f.indentSize))
	b.WriteString(text)
	b.WriteString("\n")
}
