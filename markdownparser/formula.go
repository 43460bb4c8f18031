package markdownparser

import "strings"

// extractFormulas reads $$ display formulas line by line and blanks their lines in the
// returned content, so that Markdown block rules never split a formula body. Line
// numbers of everything else are unchanged. Fenced code is left alone.
func extractFormulas(content string, base int) (string, []Block) {
	lines := strings.Split(content, "\n")

	var (
		blocks  []Block
		formula *Block
		buffer  []string
		fence   string
	)

	flush := func() {
		if formula == nil {
			return
		}

		if latex := strings.TrimSpace(strings.Join(buffer, " ")); latex != "" {
			formula.Text = latex
			blocks = append(blocks, *formula)
		}

		formula = nil
		buffer = nil
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if formula != nil {
			lines[i] = ""

			if line == "" {
				continue
			}

			if latex, ok := strings.CutSuffix(line, "$$"); ok {
				buffer = append(buffer, latex)
				flush()
			} else {
				buffer = append(buffer, line)
			}

			continue
		}

		if fence != "" {
			if strings.HasPrefix(line, fence) {
				fence = ""
			}

			continue
		}

		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			fence = line[:3]
			continue
		}

		rest, ok := strings.CutPrefix(line, "$$")
		if !ok || strings.Contains(strings.TrimSuffix(rest, "$$"), "$$") {
			continue
		}

		// $$x$$ on one line closes at once; $$$$ holds nothing and is dropped
		lines[i] = ""
		formula = &Block{Kind: FormulaBlock, Line: base + i}

		if latex, closed := strings.CutSuffix(rest, "$$"); closed {
			buffer = []string{latex}
			flush()
		} else {
			buffer = []string{rest}
		}
	}

	// Unterminated formulas run to the end of the document
	flush()

	return strings.Join(lines, "\n"), blocks
}
