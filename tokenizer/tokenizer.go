package tokenizer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq[Token]

// LatexTokenizer is a tokenizer that returns an iterator.
// Tokenization never fails: concatenating the values of all tokens reproduces the input.
type LatexTokenizer struct {
	input string
}

// NewLatexTokenizer creates a new LatexTokenizer
func NewLatexTokenizer(input string) *LatexTokenizer {
	return &LatexTokenizer{input: input}
}

// Tokens returns an iterator of tokens. The last token is always EOF.
func (t *LatexTokenizer) Tokens() TokenIterator {
	return func(yield func(Token) bool) {
		tokenizer := &tokenizer{
			input:  t.input,
			line:   1,
			column: 1,
		}

		for {
			token := tokenizer.nextToken()

			if token.Type == EOF {
				yield(token)
				return
			}

			if !yield(token) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice, EOF included
func (t *LatexTokenizer) AllTokens() []Token {
	tokens := make([]Token, 0, len(t.input)/2+1)
	for token := range t.Tokens() {
		tokens = append(tokens, token)
	}

	return tokens
}

// Tokenize is a shorthand for NewLatexTokenizer(input).AllTokens()
func Tokenize(input string) []Token {
	return NewLatexTokenizer(input).AllTokens()
}

// Join concatenates token values. Join(Tokenize(s)) == s.
func Join(tokens []Token) string {
	var builder strings.Builder
	for _, token := range tokens {
		builder.WriteString(token.Value)
	}

	return builder.String()
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int // byte offset of the next unread rune
	line     int
	column   int
}

// peek decodes the rune at the given byte offset
func (t *tokenizer) peek(offset int) (rune, int) {
	if offset >= len(t.input) {
		return 0, 0
	}

	return utf8.DecodeRuneInString(t.input[offset:])
}

// nextToken gets the next token
func (t *tokenizer) nextToken() Token {
	start := Position{Line: t.line, Column: t.column, Offset: t.position}

	current, size := t.peek(t.position)
	if size == 0 {
		return Token{Type: EOF, Position: start}
	}

	var tokenType TokenType

	end := t.position + size

	switch {
	case unicode.IsSpace(current):
		tokenType = WHITESPACE
		for {
			r, n := t.peek(end)
			if n == 0 || !unicode.IsSpace(r) {
				break
			}
			end += n
		}
	case current == '\\':
		tokenType, end = t.readCommand(end)
	case current == '{':
		tokenType = OPENED_BRACE
	case current == '}':
		tokenType = CLOSED_BRACE
	case current == '[':
		tokenType = OPENED_BRACKET
	case current == ']':
		tokenType = CLOSED_BRACKET
	case current == '(':
		tokenType = OPENED_PARENS
	case current == ')':
		tokenType = CLOSED_PARENS
	case current == '&':
		tokenType = AMPERSAND
	case current == '_':
		tokenType = SUBSCRIPT
	case current == '^':
		tokenType = SUPERSCRIPT
	case current == '\'':
		tokenType = PRIME
	case strings.ContainsRune("+-=<>,;:!/*|.?", current):
		tokenType = OPERATOR
	case unicode.IsDigit(current):
		tokenType = DIGIT
	case unicode.IsLetter(current):
		tokenType = LETTER
	default:
		tokenType = OTHER
	}

	value := t.input[t.position:end]
	t.advance(value)

	return Token{Type: tokenType, Value: value, Position: start}
}

// readCommand reads a control word, a control symbol or a row separator.
// end points just past the backslash.
func (t *tokenizer) readCommand(end int) (TokenType, int) {
	next, n := t.peek(end)

	switch {
	case n == 0:
		// dangling backslash at the end of input
		return OTHER, end
	case next == '\\':
		return ROW_SEPARATOR, end + n
	case isASCIILetter(next):
		for {
			r, size := t.peek(end)
			if size == 0 || !isASCIILetter(r) {
				break
			}
			end += size
		}

		return COMMAND, end
	default:
		return COMMAND, end + n
	}
}

// advance updates line and column over consumed text
func (t *tokenizer) advance(value string) {
	for _, r := range value {
		if r == '\n' {
			t.line++
			t.column = 1
		} else {
			t.column++
		}
	}

	t.position += len(value)
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
