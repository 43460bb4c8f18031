package latexparser

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"

	tok "github.com/shibukawa/mdomml/tokenizer"
)

var (
	braceOpen  = primitiveType("braceOpen", tok.OPENED_BRACE)
	braceClose = primitiveType("braceClose", tok.CLOSED_BRACE)
	ampersand  = primitiveType("ampersand", tok.AMPERSAND)
	rowSep     = primitiveType("rowSeparator", tok.ROW_SEPARATOR)
	prime      = primitiveType("prime", tok.PRIME)
	subMark    = primitiveType("subscript", tok.SUBSCRIPT)
	supMark    = primitiveType("superscript", tok.SUPERSCRIPT)
	nameChar   = primitiveType("nameChar", tok.LETTER, tok.OPERATOR)

	limitsSwitch = commandType("limits", "limits", "nolimits")
	primes       = pc.ZeroOrMore("primes", prime)

	// cellSeparator returns a single ampersand or row separator
	cellSeparator = pc.Or(ampersand, rowSep)

	// beginEnvironment returns: \begin, {, name..., }
	beginEnvironment = pc.Seq(commandType("begin", "begin"), braceOpen, pc.ZeroOrMore("environment name", nameChar), braceClose)
	// endEnvironment returns: \end, {, name..., }
	endEnvironment = pc.Seq(commandType("end", "end"), braceOpen, pc.ZeroOrMore("environment name", nameChar), braceClose)
)

func primitiveType(typeName string, types ...tok.TokenType) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) > 0 && tokens[0].Type == "raw" && slices.Contains(types, tokens[0].Val.Original.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func commandType(typeName string, names ...string) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) > 0 && tokens[0].Type == "raw" && tokens[0].Val.Original.Type == tok.COMMAND {
			if slices.Contains(names, tokens[0].Val.Original.Name()) {
				return 1, tokens[:1], nil
			}
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// environmentName joins the name tokens returned by beginEnvironment or endEnvironment
func environmentName(match []pc.Token[Entity]) string {
	name := ""
	for _, token := range match[2 : len(match)-1] {
		name += token.Raw
	}

	return name
}

// isRaw reports whether tokens starts with an unparsed token of the given type
func isRaw(tokens []pc.Token[Entity], tokenType tok.TokenType) bool {
	return len(tokens) > 0 && tokens[0].Type == "raw" && tokens[0].Val.Original.Type == tokenType
}

// isCommand reports whether tokens starts with one of the named commands
func isCommand(tokens []pc.Token[Entity], names ...string) bool {
	return isRaw(tokens, tok.COMMAND) && slices.Contains(names, tokens[0].Val.Original.Name())
}
