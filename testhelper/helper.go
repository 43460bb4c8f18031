package testhelper

import (
	"regexp"
	"strings"
	"testing"
)

var (
	leadingWhiteSpace = regexp.MustCompile(`^[ \t]+`)
	leadingTabs       = regexp.MustCompile(`^(\t+)`)
	betweenTags       = regexp.MustCompile(`>\s+<`)
)

func replaceTab(match string) string {
	numTabs := strings.Count(match, "\t")
	return strings.Repeat("    ", numTabs)
}

// TrimIndent removes the indentation of the first line from every line of a raw string
// literal. The opening line break and the blank line before the closing quote are
// dropped; every remaining line ends with a newline.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 {
		return ""
	}

	indent := leadingWhiteSpace.FindString(lines[0])

	var b strings.Builder

	for _, line := range lines {
		line = strings.TrimPrefix(line, indent)
		b.WriteString(leadingTabs.ReplaceAllStringFunc(line, replaceTab))
		b.WriteString("\n")
	}

	return b.String()
}

// CompactXML removes the indentation whitespace between XML tags
func CompactXML(t *testing.T, src string) string {
	t.Helper()

	return betweenTags.ReplaceAllString(strings.TrimSpace(src), "><")
}
