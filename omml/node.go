// Package omml builds Office Math equation trees from MathML and writes them as OMML.
package omml

// Node is one equation tree node. The set of implementations is closed.
type Node interface {
	equationNode()
}

// Expr is an ordered sequence of nodes filling one slot of a parent node.
// A nil Expr is an absent or unconvertible slot.
type Expr []Node

// TextRun is a leaf run of math text
type TextRun struct {
	Text   string
	Italic bool
}

// Fraction is a bar fraction
type Fraction struct {
	Numerator   Expr
	Denominator Expr
}

// Radical is a square root when Degree is nil, an nth root otherwise
type Radical struct {
	Radicand Expr
	Degree   Expr
}

// Superscript attaches Sup to Base
type Superscript struct {
	Base Expr
	Sup  Expr
}

// Subscript attaches Sub to Base
type Subscript struct {
	Base Expr
	Sub  Expr
}

// SubSup attaches both scripts to Base
type SubSup struct {
	Base Expr
	Sub  Expr
	Sup  Expr
}

// NAryOperator is a big operator with optional limits placed under and over it
type NAryOperator struct {
	Symbol string
	Base   Expr
	Lower  Expr
	Upper  Expr
}

// LimitBelow places Limit under Base
type LimitBelow struct {
	Base  Expr
	Limit Expr
}

// LimitAbove places Limit over Base
type LimitAbove struct {
	Base  Expr
	Limit Expr
}

// Accent puts a combining Mark over Base
type Accent struct {
	Base Expr
	Mark string
}

// Delimited wraps Inner in a pair of delimiters. Either may be empty.
type Delimited struct {
	Open  string
	Close string
	Inner Expr
}

// Matrix is a grid of cells
type Matrix struct {
	Rows [][]Expr
}

func (TextRun) equationNode()      {}
func (Fraction) equationNode()     {}
func (Radical) equationNode()      {}
func (Superscript) equationNode()  {}
func (Subscript) equationNode()    {}
func (SubSup) equationNode()       {}
func (NAryOperator) equationNode() {}
func (LimitBelow) equationNode()   {}
func (LimitAbove) equationNode()   {}
func (Accent) equationNode()       {}
func (Delimited) equationNode()    {}
func (Matrix) equationNode()       {}

// Run returns an upright text run expression
func Run(text string) Expr {
	return Expr{TextRun{Text: text}}
}

// ItalicRun returns an italic text run expression
func ItalicRun(text string) Expr {
	return Expr{TextRun{Text: text, Italic: true}}
}
