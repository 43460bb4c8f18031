package latexparser

import (
	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/mdomml/mathml"
	tok "github.com/shibukawa/mdomml/tokenizer"
)

// Entity is the value carried by parser tokens
type Entity struct {
	Original tok.Token    // The first source token of the entity
	Node     *mathml.Node // The parsed node; nil for tokens that produce no output (\displaystyle, \!)
	limits   bool         // Scripts attach as limits under and over the node
}

// textCommands take their argument verbatim, whitespace included
var textCommands = map[string]bool{
	"text":       true,
	"textrm":     true,
	"textit":     true,
	"textnormal": true,
	"mbox":       true,
}

// tokenToEntity drops whitespace and folds \text{...} groups into single "text" tokens
func tokenToEntity(tokens []tok.Token) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if token.Type == tok.EOF || token.Type == tok.WHITESPACE {
			continue
		}

		if token.Type == tok.COMMAND && textCommands[token.Name()] {
			if end, raw, ok := verbatimGroup(tokens, i+1); ok {
				results = append(results, newToken("text", token, mathml.Leaf(mathml.Text, raw)))
				i = end

				continue
			}
		}

		results = append(results, newToken("raw", token, nil))
	}

	return results
}

// verbatimGroup returns the raw content of the brace group starting at or after
// tokens[from] and the index of its closing brace
func verbatimGroup(tokens []tok.Token, from int) (int, string, bool) {
	open := from
	for open < len(tokens) && tokens[open].Type == tok.WHITESPACE {
		open++
	}

	if open >= len(tokens) || tokens[open].Type != tok.OPENED_BRACE {
		return 0, "", false
	}

	depth := 0
	for j := open; j < len(tokens); j++ {
		switch tokens[j].Type {
		case tok.OPENED_BRACE:
			depth++
		case tok.CLOSED_BRACE:
			depth--
			if depth == 0 {
				return j, tok.Join(tokens[open+1 : j]), true
			}
		}
	}

	return 0, "", false
}

func newToken(typeName string, token tok.Token, node *mathml.Node) pc.Token[Entity] {
	return pc.Token[Entity]{
		Type: typeName,
		Pos: &pc.Pos{
			Line:  token.Position.Line,
			Col:   token.Position.Column,
			Index: token.Position.Offset,
		},
		Val: Entity{
			Original: token,
			Node:     node,
		},
		Raw: token.Value,
	}
}

// nodeToken wraps a parsed node into a parser token positioned at the original token
func nodeToken(original pc.Token[Entity], node *mathml.Node, limits bool) pc.Token[Entity] {
	return pc.Token[Entity]{
		Type: "node",
		Pos:  original.Pos,
		Val: Entity{
			Original: original.Val.Original,
			Node:     node,
			limits:   limits,
		},
		Raw: original.Raw,
	}
}

// nodes collects the non-nil nodes of parsed tokens
func nodes(tokens []pc.Token[Entity]) []*mathml.Node {
	results := make([]*mathml.Node, 0, len(tokens))
	for _, token := range tokens {
		if token.Val.Node != nil {
			results = append(results, token.Val.Node)
		}
	}

	return results
}

// row returns the single node itself or an mrow around several
func row(children []*mathml.Node) *mathml.Node {
	if len(children) == 1 {
		return children[0]
	}

	return mathml.New(mathml.Row, children...)
}
