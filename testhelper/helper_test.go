package testhelper

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTrimIndent(t *testing.T) {
	got := TrimIndent(t, `
		first
		  second
	`)
	assert.Equal(t, "first\n  second\n", got)
	assert.Equal(t, "", TrimIndent(t, ""))
}

func TestCompactXML(t *testing.T) {
	got := CompactXML(t, "<a>\n  <b>x</b>\n  <c/>\n</a>\n")
	assert.Equal(t, "<a><b>x</b><c/></a>", got)
}
