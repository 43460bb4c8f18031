// Package markdownparser reads Markdown documents into the flat block sequence the
// document writer consumes.
//
// Block structure comes from goldmark with the GFM extension. Block text is taken from
// the raw source lines so that LaTeX inside paragraphs reaches the formula pipeline
// untouched by Markdown escaping. Display formulas are read line by line before
// goldmark sees the source.
package markdownparser

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter = errors.New("invalid front matter")
)

// BlockKind identifies a document block
type BlockKind int

const (
	HeadingBlock BlockKind = iota
	ParagraphBlock
	BulletBlock
	FormulaBlock
	TableBlock
	CodeBlock
)

func (k BlockKind) String() string {
	switch k {
	case HeadingBlock:
		return "heading"
	case ParagraphBlock:
		return "paragraph"
	case BulletBlock:
		return "bullet"
	case FormulaBlock:
		return "formula"
	case TableBlock:
		return "table"
	case CodeBlock:
		return "code"
	default:
		return "unknown"
	}
}

// Block is one top-level document element
type Block struct {
	Kind  BlockKind
	Line  int // 1-based line in the original file
	Level int // Heading level; 1 is the document title
	Text  string
	Bold  bool // Paragraph starts with strong emphasis

	// Table cells, header first
	Header []string
	Rows   [][]string
}

// Document represents a parsed Markdown document
type Document struct {
	Metadata map[string]any
	Title    string
	Blocks   []Block
}

var strongMarker = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// Parse parses Markdown content into a Document
func Parse(reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	normalized := strings.ReplaceAll(string(content), "\r\n", "\n")

	frontMatter, body, err := parseFrontMatter(normalized)
	if err != nil {
		return nil, err
	}

	base := bodyStartLine(normalized, body)

	body, formulas := extractFormulas(body, base)
	source := []byte(body)

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)
	doc := md.Parser().Parse(text.NewReader(source))

	b := &builder{source: source, base: base}
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		b.walk(node)
	}

	blocks := append(b.blocks, formulas...)
	slices.SortStableFunc(blocks, func(x, y Block) int {
		return cmp.Compare(x.Line, y.Line)
	})

	document := &Document{
		Metadata: frontMatter,
		Blocks:   blocks,
	}

	for _, block := range document.Blocks {
		if block.Kind == HeadingBlock && block.Level == 1 {
			document.Title = block.Text
			break
		}
	}

	if document.Title == "" {
		if title := metadataString(frontMatter, "title"); title != "" {
			document.Title = title
			document.Blocks = append([]Block{{Kind: HeadingBlock, Line: 1, Level: 1, Text: title}}, document.Blocks...)
		}
	}

	return document, nil
}

// builder accumulates blocks while walking the goldmark tree
type builder struct {
	source []byte
	base   int
	blocks []Block
}

func (b *builder) walk(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		b.add(Block{
			Kind:  HeadingBlock,
			Line:  b.lineOf(node),
			Level: node.Level,
			Text:  stripStrong(strings.Join(b.lines(node), " ")),
		})
	case *ast.Paragraph, *ast.TextBlock:
		b.paragraph(node)
	case *ast.List:
		number := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			b.listItem(item, node.IsOrdered(), number)
			number++
		}
	case *extast.Table:
		b.table(node)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		b.add(Block{
			Kind: CodeBlock,
			Line: b.lineOf(node),
			Text: b.code(node),
		})
	case *ast.ThematicBreak, *ast.HTMLBlock:
		// Rules and raw HTML have no document counterpart
	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			b.walk(child)
		}
	}
}

// paragraph handles each source line on its own, like a line-oriented reader would
func (b *builder) paragraph(node ast.Node) {
	lines := node.Lines()

	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)

		line := strings.TrimSpace(string(segment.Value(b.source)))
		if line == "" {
			continue
		}

		b.add(Block{
			Kind: ParagraphBlock,
			Line: b.lineAt(segment.Start),
			Text: stripStrong(line),
			Bold: strings.HasPrefix(line, "**") && strings.Contains(line[2:], "**"),
		})
	}
}

func (b *builder) listItem(item ast.Node, ordered bool, number int) {
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			content := stripStrong(strings.Join(b.lines(child), " "))
			if content == "" {
				continue
			}

			if ordered {
				b.add(Block{Kind: ParagraphBlock, Line: b.lineOf(child), Text: fmt.Sprintf("%d. %s", number, content)})
			} else {
				b.add(Block{Kind: BulletBlock, Line: b.lineOf(child), Text: content})
			}
		default:
			b.walk(child)
		}
	}
}

func (b *builder) table(table *extast.Table) {
	block := Block{Kind: TableBlock, Line: b.lineOf(table)}

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string

		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if _, ok := cell.(*extast.TableCell); ok {
				cells = append(cells, b.cellText(cell))
			}
		}

		switch row.(type) {
		case *extast.TableHeader:
			block.Header = cells
		case *extast.TableRow:
			block.Rows = append(block.Rows, cells)
		}
	}

	b.add(block)
}

// cellText returns the raw cell source, falling back to the inline text nodes
func (b *builder) cellText(cell ast.Node) string {
	if lines := b.lines(cell); len(lines) > 0 {
		return stripStrong(strings.Join(lines, " "))
	}

	var result strings.Builder

	_ = ast.Walk(cell, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			result.Write(node.Segment.Value(b.source))
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

func (b *builder) code(node ast.Node) string {
	var result strings.Builder

	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		result.Write(segment.Value(b.source))
	}

	return strings.TrimRight(result.String(), "\n")
}

// lines returns the trimmed, non-empty raw source lines of a block node
func (b *builder) lines(node ast.Node) []string {
	segments := node.Lines()
	if segments == nil {
		return nil
	}

	result := make([]string, 0, segments.Len())

	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		if line := strings.TrimSpace(string(segment.Value(b.source))); line != "" {
			result = append(result, line)
		}
	}

	return result
}

func (b *builder) add(block Block) {
	b.blocks = append(b.blocks, block)
}

// lineOf returns the line of the first source segment under node
func (b *builder) lineOf(node ast.Node) int {
	offset := -1

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() == ast.TypeInline {
			return ast.WalkContinue, nil
		}

		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			offset = lines.At(0).Start
			return ast.WalkStop, nil
		}

		return ast.WalkContinue, nil
	})

	if offset < 0 {
		return b.base
	}

	return b.lineAt(offset)
}

func (b *builder) lineAt(offset int) int {
	return b.base + bytes.Count(b.source[:offset], []byte("\n"))
}

func stripStrong(s string) string {
	return strongMarker.ReplaceAllString(s, "$1")
}
