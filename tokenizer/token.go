package tokenizer

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	LETTER  // single letter, any script
	DIGIT   // single decimal digit
	COMMAND // \name or \symbol

	// Grouping
	OPENED_BRACE    // {
	CLOSED_BRACE    // }
	OPENED_BRACKET  // [
	CLOSED_BRACKET  // ]
	OPENED_PARENS   // (
	CLOSED_PARENS   // )
	ROW_SEPARATOR   // \\
	AMPERSAND       // &

	// Scripts
	SUBSCRIPT   // _
	SUPERSCRIPT // ^
	PRIME       // '

	// OPERATOR is one of + - = < > , ; : ! / * | . ?
	OPERATOR

	// Others
	OTHER // symbols without a dedicated type, a dangling backslash
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case LETTER:
		return "LETTER"
	case DIGIT:
		return "DIGIT"
	case COMMAND:
		return "COMMAND"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	case OPENED_BRACKET:
		return "OPENED_BRACKET"
	case CLOSED_BRACKET:
		return "CLOSED_BRACKET"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case ROW_SEPARATOR:
		return "ROW_SEPARATOR"
	case AMPERSAND:
		return "AMPERSAND"
	case SUBSCRIPT:
		return "SUBSCRIPT"
	case SUPERSCRIPT:
		return "SUPERSCRIPT"
	case PRIME:
		return "PRIME"
	case OPERATOR:
		return "OPERATOR"
	case OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source formula
type Position struct {
	Line   int
	Column int
	Offset int // byte offset
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// Name returns the command name without the leading backslash.
// It returns an empty string for tokens other than COMMAND.
func (t Token) Name() string {
	if t.Type != COMMAND {
		return ""
	}

	return t.Value[1:]
}

// IsWord reports whether the token is a command spelled with letters (\alpha, \frac),
// as opposed to a control symbol such as \, or \{.
func (t Token) IsWord() bool {
	if t.Type != COMMAND || len(t.Value) < 2 {
		return false
	}

	return isASCIILetter(rune(t.Value[1]))
}
