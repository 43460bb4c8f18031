package latexparser

import (
	"fmt"
	"strings"
	"unicode"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/mdomml/mathml"
	tok "github.com/shibukawa/mdomml/tokenizer"
)

// command parses a control word or control symbol with its arguments
func command(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	first := tokens[0]
	name := first.Val.Original.Name()

	leaf := func(kind mathml.Kind, text string, limits bool) (int, pc.Token[Entity], error) {
		node := mathml.Leaf(kind, text)
		if kind == mathml.Identifier && len([]rune(text)) > 1 {
			node.WithAttr("mathvariant", "normal")
		}

		return 1, nodeToken(first, node, limits), nil
	}

	switch name {
	case "right", "end":
		return 0, pc.Token[Entity]{}, pc.ErrNotMatch
	case "begin":
		return environment(pctx, tokens)
	case "left":
		return fenced(pctx, tokens)
	case "frac", "dfrac", "tfrac", "cfrac":
		return fraction(pctx, tokens, false)
	case "binom", "dbinom", "tbinom":
		return fraction(pctx, tokens, true)
	case "sqrt":
		return root(pctx, tokens)
	case "mathrm", "operatorname", "textup":
		return upright(pctx, tokens)
	case "overset", "stackrel", "underset":
		return stacked(pctx, tokens, name == "underset")
	}

	if text, ok := greekLetters[name]; ok {
		consumed, token, err := leaf(mathml.Identifier, text, false)
		if unicode.IsUpper([]rune(text)[0]) {
			token.Val.Node.WithAttr("mathvariant", "normal")
		}

		return consumed, token, err
	}

	if text, ok := symbolIdentifiers[name]; ok {
		return leaf(mathml.Identifier, text, false)
	}

	if text, ok := symbolOperators[name]; ok {
		return leaf(mathml.Operator, text, false)
	}

	if text, ok := bigOperators[name]; ok {
		return leaf(mathml.Operator, text, true)
	}

	if limits, ok := functionNames[name]; ok {
		return leaf(mathml.Identifier, name, limits)
	}

	if width, ok := spaces[name]; ok {
		return 1, nodeToken(first, space(width), false), nil
	}

	if ignoredCommands[name] {
		return 1, nodeToken(first, nil, false), nil
	}

	if mark, ok := overAccents[name]; ok {
		return accent(pctx, tokens, mathml.Over, mark)
	}

	if mark, ok := underAccents[name]; ok {
		return accent(pctx, tokens, mathml.Under, mark)
	}

	if variant, ok := styleWrappers[name]; ok {
		n, arg, err := argument(pctx, tokens[1:])
		if err != nil || arg == nil {
			return 1 + n, nodeToken(first, nil, false), err
		}

		return 1 + n, nodeToken(first, mathml.New(mathml.Style, arg).WithAttr("mathvariant", variant), false), nil
	}

	if textCommands[name] {
		// \text without braces takes the next token verbatim
		n, _, err := argument(pctx, tokens[1:])
		if err != nil {
			return 0, pc.Token[Entity]{}, err
		}

		var raw strings.Builder
		for _, token := range tokens[1 : 1+n] {
			raw.WriteString(token.Raw)
		}

		return 1 + n, nodeToken(first, mathml.Leaf(mathml.Text, raw.String()), false), nil
	}

	if first.Val.Original.IsWord() {
		// unknown macro, rendered as its upright name
		node := mathml.Leaf(mathml.Identifier, name).WithAttr("mathvariant", "normal")
		return 1, nodeToken(first, node, false), nil
	}

	return leaf(mathml.Operator, name, false)
}

// fraction parses \frac and, as a parenthesized fraction without bar, \binom
func fraction(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], binomial bool) (int, pc.Token[Entity], error) {
	offset := 1

	n, numerator, err := argument(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	n, denominator, err := argument(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	node := mathml.New(mathml.Fraction, nonNil(numerator, denominator)...)
	if binomial {
		node.WithAttr("linethickness", "0")
		node = mathml.New(mathml.Fenced, node)
	}

	return offset, nodeToken(tokens[0], node, false), nil
}

// root parses \sqrt with an optional [degree]
func root(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	offset := 1

	var degree *mathml.Node

	if isRaw(tokens[offset:], tok.OPENED_BRACKET) {
		end, ok := closingBracket(tokens, offset)
		if !ok {
			p := tokens[offset].Val.Original.Position
			return 0, pc.Token[Entity]{}, fmt.Errorf("%w: root degree opened at %d:%d is not closed", pc.ErrCritical, p.Line, p.Column)
		}

		n, children, err := parseExpression(pctx, tokens[offset+1:end])
		if err != nil {
			return 0, pc.Token[Entity]{}, err
		}

		if offset+1+n != end {
			p := tokens[offset+1+n].Val.Original.Position
			return 0, pc.Token[Entity]{}, fmt.Errorf("%w: unexpected '%s' in root degree at %d:%d", pc.ErrCritical, tokens[offset+1+n].Raw, p.Line, p.Column)
		}

		if len(children) > 0 {
			degree = row(children)
		}

		offset = end + 1
	}

	n, radicand, err := argument(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	var node *mathml.Node

	switch {
	case radicand != nil && degree != nil:
		node = mathml.New(mathml.Root, radicand, degree)
	case radicand != nil:
		node = mathml.New(mathml.Sqrt, rowChildren(radicand)...)
	default:
		node = mathml.New(mathml.Sqrt)
	}

	return offset, nodeToken(tokens[0], node, false), nil
}

// closingBracket finds the ] matching the [ at tokens[open], skipping brace groups
func closingBracket(tokens []pc.Token[Entity], open int) (int, bool) {
	depth := 0

	for i := open + 1; i < len(tokens); i++ {
		if tokens[i].Type != "raw" {
			continue
		}

		switch tokens[i].Val.Original.Type {
		case tok.OPENED_BRACE:
			depth++
		case tok.CLOSED_BRACE:
			depth--
		case tok.CLOSED_BRACKET:
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

// upright parses \mathrm and \operatorname. Plain letters and digits merge into one identifier.
func upright(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	offset := 1

	limits := false
	if tokens[0].Val.Original.Name() == "operatorname" && len(tokens) > 1 && tokens[1].Raw == "*" {
		limits = true
		offset++
	}

	n, arg, err := argument(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	if arg == nil {
		return offset, nodeToken(tokens[0], nil, false), nil
	}

	return offset, nodeToken(tokens[0], uprightNode(arg), limits), nil
}

func uprightNode(n *mathml.Node) *mathml.Node {
	var text strings.Builder

	for _, leaf := range rowChildren(n) {
		if (leaf.Kind != mathml.Identifier && leaf.Kind != mathml.Number) || len(leaf.Children) > 0 {
			setNormalVariant(n)
			return n
		}

		text.WriteString(leaf.Text)
	}

	return mathml.Leaf(mathml.Identifier, text.String()).WithAttr("mathvariant", "normal")
}

func setNormalVariant(n *mathml.Node) {
	if n.Kind == mathml.Identifier {
		n.WithAttr("mathvariant", "normal")
	}

	for _, child := range n.Children {
		setNormalVariant(child)
	}
}

// accent parses \hat{x}-like commands into mover or munder with the mark as script
func accent(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], kind mathml.Kind, mark string) (int, pc.Token[Entity], error) {
	n, base, err := argument(pctx, tokens[1:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	node := mathml.New(kind, nonNil(base, mathml.Leaf(mathml.Operator, mark))...)
	if kind == mathml.Over {
		node.WithAttr("accent", "true")
	}

	return 1 + n, nodeToken(tokens[0], node, false), nil
}

// stacked parses \overset{over}{base} and \underset{under}{base}
func stacked(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], under bool) (int, pc.Token[Entity], error) {
	offset := 1

	n, script, err := argument(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	n, base, err := argument(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	kind := mathml.Over
	if under {
		kind = mathml.Under
	}

	return offset, nodeToken(tokens[0], mathml.New(kind, nonNil(base, script)...), false), nil
}

// fenced parses \left<delim> ... \right<delim>
func fenced(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	p := tokens[0].Val.Original.Position
	offset := 1

	open, ok := delimiter(tokens[offset:])
	if !ok {
		return 0, pc.Token[Entity]{}, fmt.Errorf("%w: missing delimiter after \\left at %d:%d", pc.ErrCritical, p.Line, p.Column)
	}

	offset++

	n, children, err := parseExpression(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	if !isCommand(tokens[offset:], "right") {
		return 0, pc.Token[Entity]{}, fmt.Errorf("%w: \\left at %d:%d has no matching \\right", pc.ErrCritical, p.Line, p.Column)
	}

	offset++

	closing, ok := delimiter(tokens[offset:])
	if !ok {
		return 0, pc.Token[Entity]{}, fmt.Errorf("%w: missing delimiter after \\right for \\left at %d:%d", pc.ErrCritical, p.Line, p.Column)
	}

	offset++

	node := mathml.New(mathml.Fenced, children...).WithAttr("open", open).WithAttr("close", closing)

	return offset, nodeToken(tokens[0], node, false), nil
}

// delimiter reads the delimiter token after \left or \right. "." is the empty delimiter.
func delimiter(tokens []pc.Token[Entity]) (string, bool) {
	if len(tokens) == 0 || tokens[0].Type != "raw" {
		return "", false
	}

	original := tokens[0].Val.Original

	switch original.Type {
	case tok.OPERATOR:
		if original.Value == "." {
			return "", true
		}

		return original.Value, true
	case tok.OPENED_PARENS, tok.CLOSED_PARENS, tok.OPENED_BRACKET, tok.CLOSED_BRACKET:
		return original.Value, true
	case tok.COMMAND:
		text, ok := delimiterCommands[original.Name()]
		return text, ok
	default:
		return "", false
	}
}
