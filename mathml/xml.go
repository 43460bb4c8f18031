package mathml

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// Namespace is the MathML namespace URI
const Namespace = "http://www.w3.org/1998/Math/MathML"

// Sentinel errors
var (
	ErrInvalidXML = errors.New("invalid MathML document")
	ErrNoRoot     = errors.New("MathML document has no root element")
)

// ParseXML reads a MathML document. Namespace prefixes are ignored; known
// element names map to their Kind and everything else becomes Unknown.
func ParseXML(content string) (*Node, error) {
	doc := etree.NewDocument()

	err := doc.ReadFromString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidXML, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}

	return fromElement(root), nil
}

func fromElement(element *etree.Element) *Node {
	node := &Node{Kind: KindOf(element.Tag)}
	if node.Kind == Unknown {
		node.Tag = element.Tag
	}

	for _, attr := range element.Attr {
		if attr.Space == "xmlns" || attr.Key == "xmlns" {
			continue
		}

		node.WithAttr(attr.Key, attr.Value)
	}

	children := element.ChildElements()
	if len(children) == 0 {
		node.Text = strings.TrimSpace(element.Text())
		return node
	}

	for _, child := range children {
		node.Children = append(node.Children, fromElement(child))
	}

	return node
}

// Marshal converts a node into an etree element
func Marshal(n *Node) *etree.Element {
	tag := n.Kind.String()
	if n.Kind == Unknown && n.Tag != "" {
		tag = n.Tag
	}

	element := etree.NewElement(tag)
	if n.Kind == Math {
		element.CreateAttr("xmlns", Namespace)
	}

	keys := make([]string, 0, len(n.Attrs))
	for key := range n.Attrs {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		element.CreateAttr(key, n.Attrs[key])
	}

	if n.Text != "" {
		element.SetText(n.Text)
	}

	for _, child := range n.Children {
		element.AddChild(Marshal(child))
	}

	return element
}

// MarshalString renders a node as an indented MathML document
func MarshalString(n *Node) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(Marshal(n))
	doc.Indent(2)

	return doc.WriteToString()
}
