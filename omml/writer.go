package omml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Namespace is the Office Math Markup Language namespace URI
const Namespace = "http://schemas.openxmlformats.org/officeDocument/2006/math"

// Marshal renders expr as an m:oMath element, wrapped in m:oMathPara when display is set.
// The m prefix is not declared; the enclosing document must bind it to Namespace.
func Marshal(expr Expr, display bool) *etree.Element {
	math := etree.NewElement("m:oMath")
	writeExpr(math, expr)

	if !display {
		return math
	}

	para := etree.NewElement("m:oMathPara")
	para.AddChild(math)

	return para
}

// MarshalString renders expr as a standalone XML fragment with the namespace declared
func MarshalString(expr Expr, display bool) (string, error) {
	root := Marshal(expr, display)
	root.CreateAttr("xmlns:m", Namespace)

	doc := etree.NewDocument()
	doc.SetRoot(root)
	doc.Indent(2)

	return doc.WriteToString()
}

func writeExpr(parent *etree.Element, expr Expr) {
	for _, node := range expr {
		writeNode(parent, node)
	}
}

func writeNode(parent *etree.Element, node Node) {
	switch n := node.(type) {
	case TextRun:
		r := parent.CreateElement("m:r")
		if !n.Italic {
			setVal(r.CreateElement("m:rPr").CreateElement("m:sty"), "p")
		}

		t := r.CreateElement("m:t")
		if strings.TrimSpace(n.Text) != n.Text {
			t.CreateAttr("xml:space", "preserve")
		}

		t.SetText(n.Text)
	case Fraction:
		f := parent.CreateElement("m:f")
		setVal(f.CreateElement("m:fPr").CreateElement("m:type"), "bar")
		writeExpr(f.CreateElement("m:num"), n.Numerator)
		writeExpr(f.CreateElement("m:den"), n.Denominator)
	case Radical:
		rad := parent.CreateElement("m:rad")
		pr := rad.CreateElement("m:radPr")
		if n.Degree == nil {
			setVal(pr.CreateElement("m:degHide"), "1")
		}

		writeExpr(rad.CreateElement("m:deg"), n.Degree)
		writeExpr(rad.CreateElement("m:e"), n.Radicand)
	case Superscript:
		s := parent.CreateElement("m:sSup")
		writeExpr(s.CreateElement("m:e"), n.Base)
		writeExpr(s.CreateElement("m:sup"), n.Sup)
	case Subscript:
		s := parent.CreateElement("m:sSub")
		writeExpr(s.CreateElement("m:e"), n.Base)
		writeExpr(s.CreateElement("m:sub"), n.Sub)
	case SubSup:
		s := parent.CreateElement("m:sSubSup")
		writeExpr(s.CreateElement("m:e"), n.Base)
		writeExpr(s.CreateElement("m:sub"), n.Sub)
		writeExpr(s.CreateElement("m:sup"), n.Sup)
	case NAryOperator:
		nary := parent.CreateElement("m:nary")
		pr := nary.CreateElement("m:naryPr")
		setVal(pr.CreateElement("m:chr"), n.Symbol)
		setVal(pr.CreateElement("m:limLoc"), "undOvr")

		if n.Lower == nil {
			setVal(pr.CreateElement("m:subHide"), "1")
		}

		if n.Upper == nil {
			setVal(pr.CreateElement("m:supHide"), "1")
		}

		writeExpr(nary.CreateElement("m:sub"), n.Lower)
		writeExpr(nary.CreateElement("m:sup"), n.Upper)
		writeExpr(nary.CreateElement("m:e"), n.Base)
	case LimitBelow:
		lim := parent.CreateElement("m:limLow")
		writeExpr(lim.CreateElement("m:e"), n.Base)
		writeExpr(lim.CreateElement("m:lim"), n.Limit)
	case LimitAbove:
		lim := parent.CreateElement("m:limUpp")
		writeExpr(lim.CreateElement("m:e"), n.Base)
		writeExpr(lim.CreateElement("m:lim"), n.Limit)
	case Accent:
		acc := parent.CreateElement("m:acc")
		setVal(acc.CreateElement("m:accPr").CreateElement("m:chr"), n.Mark)
		writeExpr(acc.CreateElement("m:e"), n.Base)
	case Delimited:
		d := parent.CreateElement("m:d")
		pr := d.CreateElement("m:dPr")
		setVal(pr.CreateElement("m:begChr"), n.Open)
		setVal(pr.CreateElement("m:endChr"), n.Close)
		writeExpr(d.CreateElement("m:e"), n.Inner)
	case Matrix:
		writeMatrix(parent, n)
	}
}

func writeMatrix(parent *etree.Element, matrix Matrix) {
	columns := 0
	for _, row := range matrix.Rows {
		columns = max(columns, len(row))
	}

	m := parent.CreateElement("m:m")
	if columns > 0 {
		mc := m.CreateElement("m:mPr").CreateElement("m:mcs").CreateElement("m:mc").CreateElement("m:mcPr")
		setVal(mc.CreateElement("m:count"), strconv.Itoa(columns))
		setVal(mc.CreateElement("m:mcJc"), "center")
	}

	for _, row := range matrix.Rows {
		mr := m.CreateElement("m:mr")

		// Word requires every row to have the same number of cells
		for i := range columns {
			e := mr.CreateElement("m:e")
			if i < len(row) {
				writeExpr(e, row[i])
			}
		}
	}
}

func setVal(element *etree.Element, value string) {
	element.CreateAttr("m:val", value)
}
