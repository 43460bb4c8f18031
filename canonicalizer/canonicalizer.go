// Package canonicalizer rewrites raw LaTeX into the subset understood by latexparser.
//
// The rewrite collapses letterform styling, renders known function-like macros as
// operator names and protects CJK text from being read as variables. It is pure,
// never fails and is idempotent.
package canonicalizer

import (
	"strings"

	"github.com/shibukawa/mdomml/tokenizer"
)

// uprightMacro is the wrapper every upright rewrite produces
const uprightMacro = `\mathrm`

// Wrapper macros rewritten to the upright wrapper
var uprightWrappers = map[string]bool{
	"text":   true,
	"textrm": true,
	"mathbf": true,
	"textbf": true,
	"mathtt": true,
	"texttt": true,
	"mathsf": true,
	"mathrm": true,
}

// Wrapper macros replaced by their bare argument
var plainWrappers = map[string]bool{
	"mathbb":     true,
	"mathcal":    true,
	"mathscr":    true,
	"mathfrak":   true,
	"boldsymbol": true,
	"bm":         true,
}

// DefaultOperatorNames lists the macros always rendered as upright operator names
var DefaultOperatorNames = []string{
	"softmax", "clip", "Attention", "MultiHead", "Concat", "AGG",
	"ActualSaving", "ExpectedSaving", "ComfortViolation", "SafetyViolation",
	"CLIP", "VF", "ReLU", "sigmoid", "tanh", "argmax", "argmin",
}

var defaultCanonicalizer = New()

// Canonicalize rewrites latex with the default operator names
func Canonicalize(latex string) string {
	return defaultCanonicalizer.Canonicalize(latex)
}

// Canonicalizer holds the closed set of operator names to rewrite
type Canonicalizer struct {
	operatorNames map[string]bool
}

// New creates a Canonicalizer recognizing DefaultOperatorNames plus extra names
func New(extraOperatorNames ...string) *Canonicalizer {
	names := make(map[string]bool, len(DefaultOperatorNames)+len(extraOperatorNames))
	for _, name := range DefaultOperatorNames {
		names[name] = true
	}

	for _, name := range extraOperatorNames {
		names[name] = true
	}

	return &Canonicalizer{operatorNames: names}
}

// Canonicalize rewrites latex. Canonicalize(Canonicalize(x)) == Canonicalize(x).
func (c *Canonicalizer) Canonicalize(latex string) string {
	tokens := tokenizer.Tokenize(latex)
	tokens = tokens[:len(tokens)-1] // EOF

	w := &writer{}
	c.rewrite(w, tokens, false)

	return w.String()
}

// rewrite emits tokens into w. Inside an upright argument CJK runs are left alone.
func (c *Canonicalizer) rewrite(w *writer, tokens []tokenizer.Token, upright bool) {
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch {
		case token.Type == tokenizer.COMMAND && token.IsWord():
			i = c.rewriteCommand(w, tokens, i, upright)
		case token.Type == tokenizer.LETTER && isCJK(token.Value):
			end := i
			for end+1 < len(tokens) && tokens[end+1].Type == tokenizer.LETTER && isCJK(tokens[end+1].Value) {
				end++
			}

			run := tokenizer.Join(tokens[i : end+1])
			if upright {
				w.emit(run)
			} else {
				w.emit(uprightMacro + "{" + run + "}")
			}

			i = end
		default:
			w.emit(token.Value)
		}
	}
}

// rewriteCommand handles the control word at tokens[i] and returns the index of the
// last token it consumed
func (c *Canonicalizer) rewriteCommand(w *writer, tokens []tokenizer.Token, i int, upright bool) int {
	name := tokens[i].Name()

	switch {
	case uprightWrappers[name], name == "operatorname":
		if name != "operatorname" {
			name = uprightMacro[1:]
		}

		open, end, ok := argument(tokens, i+1)
		if !ok {
			w.emit(`\` + name)
			return i
		}

		w.emit(`\` + name)
		w.emit(tokenizer.Join(tokens[i+1 : open])) // spacing before the brace
		w.emit("{")
		c.rewrite(w, tokens[open+1:end], true)
		w.emit("}")

		return end
	case plainWrappers[name]:
		open, end, ok := argument(tokens, i+1)
		if !ok {
			return i
		}

		c.rewrite(w, tokens[open+1:end], upright)

		return end
	case c.operatorNames[name]:
		w.emit(`\operatorname{` + name + "}")
		return i
	default:
		w.emit(tokens[i].Value)
		return i
	}
}

// argument finds a brace group starting at tokens[from], optionally preceded by
// whitespace. It returns the indexes of the opening and the matching closing brace.
func argument(tokens []tokenizer.Token, from int) (open, end int, ok bool) {
	open = from
	for open < len(tokens) && tokens[open].Type == tokenizer.WHITESPACE {
		open++
	}

	if open >= len(tokens) || tokens[open].Type != tokenizer.OPENED_BRACE {
		return 0, 0, false
	}

	depth := 0
	for j := open; j < len(tokens); j++ {
		switch tokens[j].Type {
		case tokenizer.OPENED_BRACE:
			depth++
		case tokenizer.CLOSED_BRACE:
			depth--
			if depth == 0 {
				return open, j, true
			}
		}
	}

	return 0, 0, false
}

// isCJK reports whether s starts with a CJK unified ideograph
func isCJK(s string) bool {
	for _, r := range s {
		return r >= 0x4E00 && r <= 0x9FFF
	}

	return false
}

// writer accumulates output and keeps control words from gluing onto following letters
type writer struct {
	builder strings.Builder
}

func (w *writer) emit(piece string) {
	if piece == "" {
		return
	}

	if isLetter(piece[0]) && endsWithControlWord(w.builder.String()) {
		w.builder.WriteByte(' ')
	}

	w.builder.WriteString(piece)
}

func (w *writer) String() string {
	return w.builder.String()
}

// endsWithControlWord reports whether s ends in \name, where the backslash is not escaped
func endsWithControlWord(s string) bool {
	i := len(s)
	for i > 0 && isLetter(s[i-1]) {
		i--
	}

	if i == len(s) {
		return false
	}

	slashes := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		slashes++
	}

	return slashes%2 == 1
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
