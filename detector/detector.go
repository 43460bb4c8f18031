// Package detector finds unmarked math in prose.
//
// Detection is driven by an ordered rule table. Every rule scans the text on its own,
// then the candidates are merged left to right: an overlapping candidate replaces the
// current span only when it is strictly longer.
package detector

import (
	"regexp"
	"slices"
	"unicode/utf8"
)

// Span is a detected math span. Start and End are byte offsets.
type Span struct {
	Start int
	End   int
	Text  string
	Rule  string
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the spans share at least one byte
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

const greekClass = `αβγδεζηθλμνξπρσφχψωΓΔΘΛΞΠΣΦΨΩ`

// Rule is one detection pattern. Accept, when set, filters or trims each match and
// reports the end offset to keep.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Accept  func(text string, start, end int) (int, bool)
}

// Rules is the detection table in priority order
var Rules = []Rule{
	{Name: "capitalized-subscript", Pattern: regexp.MustCompile(`[A-Z][a-zA-Z]*_\{?[a-zA-Z0-9,]+\}?`)},
	{Name: "subscript-superscript", Pattern: regexp.MustCompile(`[a-zA-Z]_\{?[a-zA-Z0-9,]+\}?\^\{?\([^)]+\)\}?`)},
	{Name: "superscript-subscript", Pattern: regexp.MustCompile(`[a-zA-Z]\^\{?\([^)]+\)\}?_\{?[a-zA-Z0-9,]+\}?`)},
	{Name: "function-call", Pattern: regexp.MustCompile(`[A-Za-zπ][_^]?\{?[\\a-zA-Z0-9]+\}?\([^)]+\)`)},
	{Name: "subscript", Pattern: regexp.MustCompile(`[a-zA-Z]_\{?[a-zA-Z0-9]+\}?`), Accept: notBeforeParen},
	{Name: "transferable", Pattern: regexp.MustCompile(`p_transferable`)},
	{Name: "conflict", Pattern: regexp.MustCompile(`P_\{?conflict\}?`)},
	{Name: "capital-power", Pattern: regexp.MustCompile(`[A-Z]\^[A-Z]`)},
	{Name: "greek-script", Pattern: regexp.MustCompile(`[` + greekClass + `][_^]?\{?[a-zA-Z0-9₀-₉]+\}?`)},
	{Name: "membership", Pattern: regexp.MustCompile(`∈\[[^\]]+\]`)},
	{Name: "greek", Pattern: regexp.MustCompile(`[` + greekClass + `]`), Accept: isolated},
}

// subscriptPrefix matches a whole candidate of the subscript rule
var subscriptPrefix = regexp.MustCompile(`^[a-zA-Z]_\{?[a-zA-Z0-9]+\}?$`)

// notBeforeParen keeps a subscript match not followed by "(", retreating to the longest
// prefix that still matches when it is
func notBeforeParen(text string, start, end int) (int, bool) {
	for e := end; e > start; e-- {
		if e < len(text) && text[e] == '(' {
			continue
		}

		if subscriptPrefix.MatchString(text[start:e]) {
			return e, true
		}
	}

	return 0, false
}

// isolated keeps a Greek letter with no ASCII letter or CJK ideograph on either side
func isolated(text string, start, end int) (int, bool) {
	before, _ := utf8.DecodeLastRuneInString(text[:start])
	after, _ := utf8.DecodeRuneInString(text[end:])

	if isWordRune(before) || isWordRune(after) {
		return 0, false
	}

	return end, true
}

func isWordRune(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || (0x4E00 <= r && r <= 0x9FFF)
}

// Detect returns the merged, non-overlapping spans of text in start order
func Detect(text string) []Span {
	return Merge(Candidates(text))
}

// Candidates runs every rule independently and returns all matches sorted by
// start offset, then by rule priority
func Candidates(text string) []Span {
	type ranked struct {
		span     Span
		priority int
	}

	var candidates []ranked

	for priority, rule := range Rules {
		for _, span := range scan(rule, text) {
			candidates = append(candidates, ranked{span: span, priority: priority})
		}
	}

	slices.SortStableFunc(candidates, func(a, b ranked) int {
		if a.span.Start != b.span.Start {
			return a.span.Start - b.span.Start
		}

		return a.priority - b.priority
	})

	result := make([]Span, len(candidates))
	for i, candidate := range candidates {
		result[i] = candidate.span
	}

	return result
}

// scan finds the successive matches of one rule. A rejected match resumes the search
// one character after its start.
func scan(rule Rule, text string) []Span {
	var spans []Span

	position := 0
	for position < len(text) {
		loc := rule.Pattern.FindStringIndex(text[position:])
		if loc == nil {
			break
		}

		start, end := position+loc[0], position+loc[1]

		if rule.Accept != nil {
			accepted, ok := rule.Accept(text, start, end)
			if !ok {
				_, size := utf8.DecodeRuneInString(text[start:])
				position = start + max(size, 1)

				continue
			}

			end = accepted
		}

		spans = append(spans, Span{Start: start, End: end, Text: text[start:end], Rule: rule.Name})
		position = end
	}

	return spans
}

// Merge resolves overlaps between start-ordered candidates
func Merge(candidates []Span) []Span {
	var merged []Span

	for _, candidate := range candidates {
		if len(merged) == 0 {
			merged = append(merged, candidate)
			continue
		}

		last := &merged[len(merged)-1]
		if candidate.Start < last.End {
			if candidate.Len() > last.Len() {
				*last = candidate
			}

			continue
		}

		merged = append(merged, candidate)
	}

	return merged
}
