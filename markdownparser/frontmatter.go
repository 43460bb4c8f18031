package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// parseFrontMatter extracts YAML front matter from markdown content.
// A leading rule without a closing delimiter, or a block that is not a mapping, is
// not front matter; the content is returned unchanged.
func parseFrontMatter(content string) (map[string]any, string, error) {
	// Check if content starts with front matter delimiter
	if !strings.HasPrefix(content, "---\n") {
		return make(map[string]any), content, nil
	}

	// Find the closing delimiter
	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return make(map[string]any), content, nil
	}

	endIndex += 4 // Adjust for the initial slice

	frontMatterContent := content[4:endIndex]
	remainingContent := content[endIndex+4:]

	var decoded any

	err := yaml.Unmarshal([]byte(frontMatterContent), &decoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	switch frontMatter := decoded.(type) {
	case nil:
		return make(map[string]any), remainingContent, nil
	case map[string]any:
		return frontMatter, remainingContent, nil
	default:
		return make(map[string]any), content, nil
	}
}

// bodyStartLine returns the 1-based line of the first body line, which shares the
// closing delimiter's line when front matter was consumed
func bodyStartLine(content, body string) int {
	return 1 + strings.Count(content[:len(content)-len(body)], "\n")
}

// metadataString returns a front matter value as a trimmed string
func metadataString(metadata map[string]any, key string) string {
	value, ok := metadata[key]
	if !ok || value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}

	return strings.TrimSpace(fmt.Sprint(value))
}
