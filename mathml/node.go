// Package mathml models presentation MathML trees.
//
// A tree is produced once per formula, either by latexparser or by ParseXML,
// and consumed by the omml transducer.
package mathml

import "strings"

// Kind is the closed set of MathML element kinds
type Kind int

const (
	Unknown Kind = iota
	Math         // <math> root
	Row          // <mrow>
	Identifier   // <mi>
	Number       // <mn>
	Operator     // <mo>
	Text         // <mtext>
	Space        // <mspace>
	Fraction     // <mfrac>
	Sqrt         // <msqrt>
	Root         // <mroot>
	Sup          // <msup>
	Sub          // <msub>
	SubSup       // <msubsup>
	Under        // <munder>
	Over         // <mover>
	UnderOver    // <munderover>
	Fenced       // <mfenced>
	Table        // <mtable>
	TableRow     // <mtr>
	TableCell    // <mtd>
	Style        // <mstyle>
	Padded       // <mpadded>
	Enclose      // <menclose>
)

var kindTags = map[Kind]string{
	Unknown:    "unknown",
	Math:       "math",
	Row:        "mrow",
	Identifier: "mi",
	Number:     "mn",
	Operator:   "mo",
	Text:       "mtext",
	Space:      "mspace",
	Fraction:   "mfrac",
	Sqrt:       "msqrt",
	Root:       "mroot",
	Sup:        "msup",
	Sub:        "msub",
	SubSup:     "msubsup",
	Under:      "munder",
	Over:       "mover",
	UnderOver:  "munderover",
	Fenced:     "mfenced",
	Table:      "mtable",
	TableRow:   "mtr",
	TableCell:  "mtd",
	Style:      "mstyle",
	Padded:     "mpadded",
	Enclose:    "menclose",
}

var tagKinds = func() map[string]Kind {
	result := make(map[string]Kind, len(kindTags))
	for kind, tag := range kindTags {
		result[tag] = kind
	}

	delete(result, "unknown")

	return result
}()

// String returns the MathML element name of the kind
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}

	return "unknown"
}

// KindOf returns the kind for a MathML element name, Unknown if it is not modeled
func KindOf(tag string) Kind {
	if kind, ok := tagKinds[tag]; ok {
		return kind
	}

	return Unknown
}

// IsToken reports whether elements of this kind carry text instead of children
func (k Kind) IsToken() bool {
	switch k {
	case Identifier, Number, Operator, Text, Space:
		return true
	default:
		return false
	}
}

// Node is one MathML element
type Node struct {
	Kind     Kind
	Tag      string // element name when Kind is Unknown
	Text     string
	Attrs    map[string]string
	Children []*Node
}

// New creates an element node
func New(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Leaf creates a token node
func Leaf(kind Kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

// WithAttr sets an attribute and returns the node
func (n *Node) WithAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}

	n.Attrs[key] = value

	return n
}

// Attr returns an attribute value or the empty string
func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// Variant returns the mathvariant attribute
func (n *Node) Variant() string {
	return n.Attr("mathvariant")
}

// Open returns the opening delimiter of a fenced group, "(" by default
func (n *Node) Open() string {
	if value, ok := n.Attrs["open"]; ok {
		return value
	}

	return "("
}

// Close returns the closing delimiter of a fenced group, ")" by default
func (n *Node) Close() string {
	if value, ok := n.Attrs["close"]; ok {
		return value
	}

	return ")"
}

// FirstText returns the text of the first leaf with non-empty text, depth first
func (n *Node) FirstText() string {
	if n == nil {
		return ""
	}

	if len(n.Children) == 0 {
		return strings.TrimSpace(n.Text)
	}

	for _, child := range n.Children {
		if text := child.FirstText(); text != "" {
			return text
		}
	}

	return ""
}
