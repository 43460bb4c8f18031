package omml

import (
	"unicode/utf8"

	"github.com/shibukawa/mdomml/mathml"
	"golang.org/x/text/unicode/norm"
)

// Operator glyph substitutions. Operators not listed pass through unchanged.
var operatorSymbols = map[string]string{
	"∑": "∑",
	"∏": "∏",
	"∫": "∫",
	"→": "→",
	"←": "←",
	"⇒": "⇒",
	"≤": "≤",
	"≥": "≥",
	"≠": "≠",
	"∈": "∈",
	"∉": "∉",
	"⋅": "·",
	"×": "×",
	"÷": "÷",
	"∀": "∀",
	"∃": "∃",
	"∞": "∞",
	"∂": "∂",
}

// Base texts that turn under/over constructs into n-ary operators
var bigOperators = map[string]bool{
	"∑":   true,
	"Σ":   true,
	"∏":   true,
	"Π":   true,
	"∫":   true,
	"⋃":   true,
	"⋂":   true,
	"lim": true,
}

// Over-script texts recognized as accents, mapped to the combining mark.
// Spacing and combining forms are distinct under NFC, so both are listed.
var accentMarks = map[string]string{
	"^":      "\u0302",
	"\u02C6": "\u0302",
	"\u0302": "\u0302",
	"~":      "\u0303",
	"\u02DC": "\u0303",
	"\u0303": "\u0303",
	"\u00AF": "\u0304",
	"\u0304": "\u0304",
	"→":      "\u20D7",
	"\u20D7": "\u20D7",
}

// Convert transduces a MathML tree into an equation tree.
// It returns nil when nothing could be converted.
func Convert(root *mathml.Node) Expr {
	if root == nil {
		return nil
	}

	return convert(root)
}

func convert(n *mathml.Node) Expr {
	switch n.Kind {
	case mathml.Identifier:
		if n.Text == "" {
			return nil
		}

		italic := utf8.RuneCountInString(n.Text) <= 1 && n.Variant() != "normal"

		return Expr{TextRun{Text: n.Text, Italic: italic}}
	case mathml.Number, mathml.Text:
		if n.Text == "" {
			return nil
		}

		return Run(n.Text)
	case mathml.Space:
		return Run(" ")
	case mathml.Operator:
		if n.Text == "" {
			return nil
		}

		if symbol, ok := operatorSymbols[n.Text]; ok {
			return Run(symbol)
		}

		return Run(n.Text)
	case mathml.Fraction:
		if len(n.Children) < 2 {
			return nil
		}

		return Expr{Fraction{
			Numerator:   convert(n.Children[0]),
			Denominator: convert(n.Children[1]),
		}}
	case mathml.Sqrt:
		return Expr{Radical{Radicand: convertSequence(n.Children)}}
	case mathml.Root:
		switch len(n.Children) {
		case 0:
			return nil
		case 1:
			return Expr{Radical{Radicand: convert(n.Children[0])}}
		default:
			return Expr{Radical{
				Radicand: convert(n.Children[0]),
				Degree:   convert(n.Children[1]),
			}}
		}
	case mathml.Sup:
		if len(n.Children) != 2 {
			return nil
		}

		return Expr{Superscript{
			Base: convert(n.Children[0]),
			Sup:  convert(n.Children[1]),
		}}
	case mathml.Sub:
		if len(n.Children) != 2 {
			return nil
		}

		return Expr{Subscript{
			Base: convert(n.Children[0]),
			Sub:  convert(n.Children[1]),
		}}
	case mathml.SubSup:
		return convertSubSup(n)
	case mathml.Under:
		if len(n.Children) != 2 {
			return nil
		}

		if symbol := firstText(n.Children[0]); bigOperators[symbol] {
			return Expr{NAryOperator{Symbol: symbol, Lower: convert(n.Children[1])}}
		}

		return Expr{LimitBelow{
			Base:  convert(n.Children[0]),
			Limit: convert(n.Children[1]),
		}}
	case mathml.Over:
		if len(n.Children) != 2 {
			return nil
		}

		if mark, ok := accentMarks[firstText(n.Children[1])]; ok {
			return Expr{Accent{Base: convert(n.Children[0]), Mark: mark}}
		}

		return Expr{LimitAbove{
			Base:  convert(n.Children[0]),
			Limit: convert(n.Children[1]),
		}}
	case mathml.UnderOver:
		if len(n.Children) != 3 {
			return nil
		}

		if symbol := firstText(n.Children[0]); bigOperators[symbol] {
			return Expr{NAryOperator{
				Symbol: symbol,
				Lower:  convert(n.Children[1]),
				Upper:  convert(n.Children[2]),
			}}
		}

		return convertSubSup(n)
	case mathml.Fenced:
		return Expr{Delimited{
			Open:  n.Open(),
			Close: n.Close(),
			Inner: convertSequence(n.Children),
		}}
	case mathml.Table:
		return Expr{convertTable(n)}
	default:
		// Math, Row, Style, Padded, Enclose, stray TableRow/TableCell and Unknown are transparent
		return convertSequence(n.Children)
	}
}

func convertSubSup(n *mathml.Node) Expr {
	if len(n.Children) != 3 {
		return nil
	}

	return Expr{SubSup{
		Base: convert(n.Children[0]),
		Sub:  convert(n.Children[1]),
		Sup:  convert(n.Children[2]),
	}}
}

// convertSequence converts siblings in order. An n-ary operator without a base takes
// the conversion of the following non-operator sibling as its base.
func convertSequence(children []*mathml.Node) Expr {
	var result Expr

	for i := 0; i < len(children); i++ {
		converted := convert(children[i])

		if len(converted) > 0 && i+1 < len(children) && children[i+1].Kind != mathml.Operator {
			if nary, ok := converted[len(converted)-1].(NAryOperator); ok && nary.Base == nil {
				nary.Base = convert(children[i+1])
				converted[len(converted)-1] = nary
				i++
			}
		}

		result = append(result, converted...)
	}

	return result
}

func convertTable(n *mathml.Node) Matrix {
	var matrix Matrix

	for _, row := range n.Children {
		if row.Kind != mathml.TableRow {
			continue
		}

		var cells []Expr

		for _, cell := range row.Children {
			if cell.Kind != mathml.TableCell {
				continue
			}

			cells = append(cells, convertSequence(cell.Children))
		}

		matrix.Rows = append(matrix.Rows, cells)
	}

	return matrix
}

// firstText returns the first non-empty nested text of n composed to NFC
func firstText(n *mathml.Node) string {
	return norm.NFC.String(n.FirstText())
}
