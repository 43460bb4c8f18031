// Package latexparser parses LaTeX math into presentation MathML trees.
//
// The grammar is built with parsercombinator over tokenizer tokens. It is lenient about
// missing command arguments: \frac{a} yields a fraction with a single child and leaves the
// decision to the consumer. Unbalanced groups and stray closing tokens are syntax errors.
package latexparser

import (
	"errors"
	"fmt"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/mdomml/mathml"
	tok "github.com/shibukawa/mdomml/tokenizer"
)

// ErrSyntax is returned when a formula cannot be parsed
var ErrSyntax = errors.New("latex syntax error")

// Parser parses LaTeX formulas into MathML trees
type Parser struct{}

// Parse implements the formula parser used by the assembler
func (Parser) Parse(latex string) (*mathml.Node, error) {
	return Parse(latex)
}

var items pc.Parser[Entity]

func init() {
	items = pc.ZeroOrMore("items", pc.Trace("item", item))
}

// Parse parses a formula without its dollar delimiters. Top level & and \\ produce a table.
func Parse(latex string) (*mathml.Node, error) {
	tokens := tokenToEntity(tok.Tokenize(latex))
	pctx := pc.NewParseContext[Entity]()
	pctx.OrMode = pc.OrModeTryFast

	consumed, rows, err := parseRows(pctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	if consumed != len(tokens) {
		p := tokens[consumed].Val.Original.Position
		return nil, fmt.Errorf("%w: unexpected '%s' at %d:%d", ErrSyntax, tokens[consumed].Raw, p.Line, p.Column)
	}

	root := mathml.New(mathml.Math)
	if len(rows) == 1 && len(rows[0]) == 1 {
		root.Children = rows[0][0].Children
	} else {
		root.Children = []*mathml.Node{table(rows)}
	}

	return root, nil
}

// parseExpression parses items until a token that cannot start one
func parseExpression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []*mathml.Node, error) {
	consumed, matched, err := items(pctx, tokens)
	if errors.Is(err, pc.ErrNotMatch) {
		return 0, nil, nil
	} else if err != nil {
		return 0, nil, err
	}

	return consumed, nodes(matched), nil
}

// item parses an atom with its scripts
func item(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	consumed, base, err := atom(pctx, tokens)
	if errors.Is(err, pc.ErrNotMatch) && (isRaw(tokens, tok.SUBSCRIPT) || isRaw(tokens, tok.SUPERSCRIPT)) {
		// script without a base, as in {}^{14}C written without the braces
		base = nodeToken(tokens[0], mathml.New(mathml.Row), false)
	} else if err != nil {
		return 0, nil, err
	}

	n, scripted, err := scripts(pctx, tokens[consumed:], base)
	if err != nil {
		return 0, nil, err
	}

	if consumed+n == 0 {
		return 0, nil, pc.ErrNotMatch
	}

	return consumed + n, []pc.Token[Entity]{scripted}, nil
}

func atom(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	if len(tokens) == 0 {
		return 0, pc.Token[Entity]{}, pc.ErrNotMatch
	}

	first := tokens[0]
	if first.Type == "text" {
		return 1, nodeToken(first, first.Val.Node, false), nil
	}

	value := first.Val.Original.Value

	switch first.Val.Original.Type {
	case tok.LETTER:
		return 1, nodeToken(first, mathml.Leaf(mathml.Identifier, value), false), nil
	case tok.DIGIT:
		return number(tokens)
	case tok.OPERATOR, tok.OPENED_PARENS, tok.CLOSED_PARENS, tok.OPENED_BRACKET, tok.CLOSED_BRACKET:
		return 1, nodeToken(first, mathml.Leaf(mathml.Operator, value), false), nil
	case tok.PRIME:
		return 1, nodeToken(first, mathml.Leaf(mathml.Operator, "′"), false), nil
	case tok.OPENED_BRACE:
		return group(pctx, tokens)
	case tok.COMMAND:
		return command(pctx, tokens)
	case tok.OTHER:
		switch value {
		case `\`:
			return 0, pc.Token[Entity]{}, pc.ErrNotMatch
		case "~":
			return 1, nodeToken(first, space("0.333em"), false), nil
		default:
			return 1, nodeToken(first, mathml.Leaf(mathml.Operator, value), bigOperatorGlyphs[value]), nil
		}
	default:
		// closing brace, &, \\ and scripts end the expression
		return 0, pc.Token[Entity]{}, pc.ErrNotMatch
	}
}

// number merges a digit run, with an inner decimal point, into one mn
func number(tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	var text strings.Builder

	i := 0
	for i < len(tokens) {
		if isRaw(tokens[i:], tok.DIGIT) {
			text.WriteString(tokens[i].Raw)
			i++

			continue
		}

		if i > 0 && tokens[i].Raw == "." && isRaw(tokens[i:], tok.OPERATOR) && isRaw(tokens[i+1:], tok.DIGIT) {
			text.WriteString(".")
			i++

			continue
		}

		break
	}

	return i, nodeToken(tokens[0], mathml.Leaf(mathml.Number, text.String()), false), nil
}

// group parses {...}. A group of one item is that item.
func group(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	consumed, children, err := parseExpression(pctx, tokens[1:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	if _, _, err := braceClose(pctx, tokens[1+consumed:]); err != nil {
		p := tokens[0].Val.Original.Position
		return 0, pc.Token[Entity]{}, fmt.Errorf("%w: group opened at %d:%d is not closed", pc.ErrCritical, p.Line, p.Column)
	}

	node := mathml.New(mathml.Row)
	if len(children) > 0 {
		node = row(children)
	}

	return consumed + 2, nodeToken(tokens[0], node, false), nil
}

// argument parses one command or script argument: a group, a single digit or an atom.
// A missing argument yields a nil node.
func argument(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, *mathml.Node, error) {
	if isRaw(tokens, tok.DIGIT) {
		return 1, mathml.Leaf(mathml.Number, tokens[0].Raw), nil
	}

	consumed, parsed, err := atom(pctx, tokens)
	if errors.Is(err, pc.ErrNotMatch) {
		return 0, nil, nil
	} else if err != nil {
		return 0, nil, err
	}

	return consumed, parsed.Val.Node, nil
}

// scripts attaches primes, subscripts and superscripts following base
func scripts(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], base pc.Token[Entity]) (int, pc.Token[Entity], error) {
	offset := 0

	if isCommand(tokens, "limits", "nolimits") {
		n, _, _ := pc.ZeroOrMore("limits", limitsSwitch)(pctx, tokens)
		offset += n
	}

	n, primeTokens, _ := primes(pctx, tokens[offset:])
	offset += n

	var (
		sub, sup       *mathml.Node
		hasSub, hasSup bool
	)

	for {
		rest := tokens[offset:]

		if n, _, err := subMark(pctx, rest); err == nil && !hasSub {
			c, arg, err := argument(pctx, rest[n:])
			if err != nil {
				return 0, pc.Token[Entity]{}, err
			}

			sub, hasSub = arg, true
			offset += n + c

			continue
		}

		if n, _, err := supMark(pctx, rest); err == nil && !hasSup {
			c, arg, err := argument(pctx, rest[n:])
			if err != nil {
				return 0, pc.Token[Entity]{}, err
			}

			sup, hasSup = arg, true
			offset += n + c

			continue
		}

		break
	}

	if len(primeTokens) > 0 {
		mark := mathml.Leaf(mathml.Operator, strings.Repeat("′", len(primeTokens)))
		if hasSup && sup != nil {
			sup = mathml.New(mathml.Row, mark, sup)
		} else {
			sup = mark
		}

		hasSup = true
	}

	if !hasSub && !hasSup {
		return offset, base, nil
	}

	var kind mathml.Kind

	switch {
	case hasSub && hasSup && base.Val.limits:
		kind = mathml.UnderOver
	case hasSub && hasSup:
		kind = mathml.SubSup
	case hasSub && base.Val.limits:
		kind = mathml.Under
	case hasSub:
		kind = mathml.Sub
	case base.Val.limits:
		kind = mathml.Over
	default:
		kind = mathml.Sup
	}

	baseNode := base.Val.Node
	if baseNode == nil {
		baseNode = mathml.New(mathml.Row)
	}

	node := mathml.New(kind, nonNil(baseNode, sub, sup)...)

	return offset, nodeToken(base, node, false), nil
}

func nonNil(candidates ...*mathml.Node) []*mathml.Node {
	results := make([]*mathml.Node, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate != nil {
			results = append(results, candidate)
		}
	}

	return results
}

// rowChildren returns the children of an mrow, or the node itself
func rowChildren(n *mathml.Node) []*mathml.Node {
	if n.Kind == mathml.Row {
		return n.Children
	}

	return []*mathml.Node{n}
}

func space(width string) *mathml.Node {
	return mathml.New(mathml.Space).WithAttr("width", width)
}
