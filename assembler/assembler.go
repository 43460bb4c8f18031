// Package assembler turns paragraph text into an ordered run sequence of literal text
// and equations.
//
// Explicit formulas are written as $...$. Unmarked math in the remaining prose is found
// by the detector package. Every math run goes through canonicalization, parsing and
// transduction; a run that cannot be converted degrades to italic source text.
package assembler

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shibukawa/mdomml"
	"github.com/shibukawa/mdomml/canonicalizer"
	"github.com/shibukawa/mdomml/detector"
	"github.com/shibukawa/mdomml/latexparser"
	"github.com/shibukawa/mdomml/mathml"
	"github.com/shibukawa/mdomml/omml"
)

// Parser parses canonicalized LaTeX into a MathML tree
type Parser interface {
	Parse(latex string) (*mathml.Node, error)
}

// SegmentKind classifies a paragraph segment
type SegmentKind int

const (
	LiteralText SegmentKind = iota
	ExplicitFormula
	ImplicitMath
)

func (k SegmentKind) String() string {
	switch k {
	case LiteralText:
		return "text"
	case ExplicitFormula:
		return "formula"
	case ImplicitMath:
		return "math"
	default:
		return "unknown"
	}
}

// Segment is a range of the original paragraph text. Start and End are byte offsets.
// Content is the literal text, the LaTeX enclosed by the dollars, or the detected prose.
type Segment struct {
	Start   int
	End     int
	Kind    SegmentKind
	Content string
}

// RunKind classifies an output run
type RunKind int

const (
	Text RunKind = iota
	Math
	Fallback
)

func (k RunKind) String() string {
	switch k {
	case Text:
		return "text"
	case Math:
		return "math"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Run is one element of a paragraph. Text runs carry Text and Bold, Math runs carry
// Equation, and Fallback runs carry the italic source Text. Source is the text the
// formula came from.
type Run struct {
	Kind     RunKind
	Text     string
	Bold     bool
	Italic   bool
	Equation omml.Expr
	Source   string
}

// Assembler builds run sequences. It keeps no per-paragraph state.
type Assembler struct {
	parser        Parser
	canonicalizer *canonicalizer.Canonicalizer
	detection     bool
}

// Option is a function that configures Assembler
type Option func(*Assembler)

// WithParser sets the LaTeX parser
func WithParser(p Parser) Option {
	return func(a *Assembler) {
		a.parser = p
	}
}

// WithCanonicalizer sets the canonicalizer
func WithCanonicalizer(c *canonicalizer.Canonicalizer) Option {
	return func(a *Assembler) {
		a.canonicalizer = c
	}
}

// WithDetection enables or disables unmarked math detection
func WithDetection(enabled bool) Option {
	return func(a *Assembler) {
		a.detection = enabled
	}
}

// New creates a new Assembler
func New(opts ...Option) *Assembler {
	a := &Assembler{
		parser:        latexparser.Parser{},
		canonicalizer: canonicalizer.New(),
		detection:     true,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

var explicitFormula = regexp.MustCompile(`\$([^$]+)\$`)

func placeholder(index int) string {
	return "\x00FORMULA" + strconv.Itoa(index) + "\x00"
}

// substitution records where one explicit formula sits in both texts
type substitution struct {
	original    [2]int
	substituted [2]int
	latex       string
}

// Segments splits text into literal, explicit-formula and implicit-math segments.
// The result is sorted, contiguous and covers the whole text.
func (a *Assembler) Segments(text string) []Segment {
	var (
		builder strings.Builder
		subs    []substitution
		last    int
	)

	for i, match := range explicitFormula.FindAllStringSubmatchIndex(text, -1) {
		builder.WriteString(text[last:match[0]])

		start := builder.Len()
		builder.WriteString(placeholder(i))

		subs = append(subs, substitution{
			original:    [2]int{match[0], match[1]},
			substituted: [2]int{start, builder.Len()},
			latex:       text[match[2]:match[3]],
		})
		last = match[1]
	}

	builder.WriteString(text[last:])
	substituted := builder.String()

	var marked []Segment

	for _, sub := range subs {
		marked = append(marked, Segment{
			Start:   sub.original[0],
			End:     sub.original[1],
			Kind:    ExplicitFormula,
			Content: sub.latex,
		})
	}

	if a.detection {
		for _, span := range detector.Detect(substituted) {
			if intersectsAny(span, subs) {
				continue
			}

			start, end := originalOffset(span.Start, subs), originalOffset(span.End, subs)
			marked = append(marked, Segment{
				Start:   start,
				End:     end,
				Kind:    ImplicitMath,
				Content: text[start:end],
			})
		}
	}

	slices.SortFunc(marked, func(x, y Segment) int {
		return x.Start - y.Start
	})

	var (
		segments []Segment
		position int
	)

	for _, segment := range marked {
		if segment.Start > position {
			segments = append(segments, literal(text, position, segment.Start))
		}

		segments = append(segments, segment)
		position = segment.End
	}

	if position < len(text) {
		segments = append(segments, literal(text, position, len(text)))
	}

	return segments
}

func literal(text string, start, end int) Segment {
	return Segment{Start: start, End: end, Kind: LiteralText, Content: text[start:end]}
}

func intersectsAny(span detector.Span, subs []substitution) bool {
	for _, sub := range subs {
		if span.Start < sub.substituted[1] && sub.substituted[0] < span.End {
			return true
		}
	}

	return false
}

// originalOffset maps an offset outside every placeholder back to the original text
func originalOffset(offset int, subs []substitution) int {
	shift := 0

	for _, sub := range subs {
		if sub.substituted[1] > offset {
			break
		}

		shift += (sub.substituted[1] - sub.substituted[0]) - (sub.original[1] - sub.original[0])
	}

	return offset - shift
}

// Paragraph converts one paragraph into runs in segment order. Every math run
// increments the inline counter of stats once.
func (a *Assembler) Paragraph(text string, bold bool, stats *mdomml.Stats) []Run {
	segments := a.Segments(text)
	runs := make([]Run, 0, len(segments))

	for _, segment := range segments {
		switch segment.Kind {
		case ExplicitFormula:
			stats.AddInline()
			runs = append(runs, a.mathRun(segment.Content, segment.Content))
		case ImplicitMath:
			stats.AddInline()
			runs = append(runs, a.mathRun(ToLatex(segment.Content), segment.Content))
		default:
			runs = append(runs, Run{Kind: Text, Text: segment.Content, Bold: bold})
		}
	}

	return runs
}

// Block converts a display formula and increments the block counter of stats
func (a *Assembler) Block(latex string, stats *mdomml.Stats) Run {
	stats.AddBlock()

	return a.mathRun(latex, latex)
}

func (a *Assembler) mathRun(latex, source string) Run {
	expr, err := a.Formula(latex)
	if err != nil {
		return Run{Kind: Fallback, Text: source, Italic: true, Source: source}
	}

	return Run{Kind: Math, Equation: expr, Source: source}
}

// Formula converts one LaTeX formula into an equation tree.
// Surrounding dollars and whitespace are stripped first.
func (a *Assembler) Formula(latex string) (omml.Expr, error) {
	source := strings.TrimSpace(strings.Trim(strings.TrimSpace(latex), "$"))
	if source == "" {
		return nil, mdomml.ErrEmptyFormula
	}

	node, err := a.parser.Parse(a.canonicalizer.Canonicalize(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse formula '%s': %w", source, err)
	}

	expr := omml.Convert(node)
	if len(expr) == 0 {
		return nil, fmt.Errorf("%w: '%s'", mdomml.ErrUnconvertible, source)
	}

	return expr, nil
}
