// Package converter turns Markdown files into .docx documents with native equations.
package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/mdomml"
	"github.com/shibukawa/mdomml/assembler"
	"github.com/shibukawa/mdomml/canonicalizer"
	"github.com/shibukawa/mdomml/docx"
	"github.com/shibukawa/mdomml/markdownparser"
)

var (
	warningFmt = color.New(color.FgYellow).SprintfFunc()
	blockFmt   = color.New(color.FgBlue).SprintfFunc()
)

// Fallback records a formula rendered as italic source text
type Fallback struct {
	Line   int
	Source string
}

// Result summarizes one conversion
type Result struct {
	Output    string
	Title     string
	Stats     mdomml.Stats
	Fallbacks []Fallback
}

// Converter converts Markdown documents using one configuration
type Converter struct {
	config    *mdomml.Config
	assembler *assembler.Assembler
	verbose   bool
	log       io.Writer
}

// Option is a function that configures Converter
type Option func(*Converter)

// WithVerbose reports each block and fallback to w
func WithVerbose(w io.Writer) Option {
	return func(c *Converter) {
		c.verbose = true
		c.log = w
	}
}

// WithAssembler replaces the run assembler built from the configuration
func WithAssembler(a *assembler.Assembler) Option {
	return func(c *Converter) {
		c.assembler = a
	}
}

// New creates a new Converter
func New(config *mdomml.Config, opts ...Option) *Converter {
	if config == nil {
		config = mdomml.DefaultConfig()
	}

	c := &Converter{
		config: config,
		log:    io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.assembler == nil {
		c.assembler = assembler.New(
			assembler.WithCanonicalizer(canonicalizer.New(config.Math.OperatorNames...)),
			assembler.WithDetection(config.Math.IsDetectionEnabled()),
		)
	}

	return c
}

// IsMarkdownFile checks if the file has a markdown extension
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}

// OutputPath derives the .docx path for input. An explicit output wins, then the
// configured output directory, then the input's own directory.
func (c *Converter) OutputPath(input, output string) string {
	if output != "" {
		return output
	}

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + c.config.Output.Suffix

	dir := c.config.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}

	return filepath.Join(dir, name)
}

// ConvertFile converts the Markdown file input and saves the document
func (c *Converter) ConvertFile(input, output string) (*Result, error) {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", mdomml.ErrInputFileNotExist, input)
	}

	if !IsMarkdownFile(input) {
		return nil, fmt.Errorf("%w: %s", mdomml.ErrNotMarkdownFile, input)
	}

	file, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	document, result, err := c.Convert(file)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", input, err)
	}

	result.Output = c.OutputPath(input, output)

	if dir := filepath.Dir(result.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := document.Save(result.Output); err != nil {
		return nil, err
	}

	return result, nil
}

// Convert parses Markdown from reader and builds the document in memory
func (c *Converter) Convert(reader io.Reader) (*docx.Document, *Result, error) {
	parsed, err := markdownparser.Parse(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	if len(parsed.Blocks) == 0 {
		return nil, nil, mdomml.ErrEmptyContent
	}

	document, result := c.Build(parsed)

	return document, result, nil
}

// Build renders parsed blocks in document order
func (c *Converter) Build(parsed *markdownparser.Document) (*docx.Document, *Result) {
	document := docx.New(c.config)
	result := &Result{Title: parsed.Title}

	for _, block := range parsed.Blocks {
		if c.verbose {
			fmt.Fprintln(c.log, blockFmt("line %d: %s", block.Line, block.Kind))
		}

		switch block.Kind {
		case markdownparser.HeadingBlock:
			if block.Level == 1 {
				document.Title(block.Text)
			} else {
				document.Heading(block.Level-1, block.Text)
			}
		case markdownparser.FormulaBlock:
			run := c.assembler.Block(block.Text, &result.Stats)
			c.recordFallbacks(result, block.Line, []assembler.Run{run})
			document.Formula(run)
		case markdownparser.TableBlock:
			document.Table(block.Header, block.Rows)
		case markdownparser.BulletBlock:
			runs := c.assembler.Paragraph(block.Text, false, &result.Stats)
			c.recordFallbacks(result, block.Line, runs)
			document.Bullet(runs)
		case markdownparser.CodeBlock:
			document.Code(block.Text)
		default:
			runs := c.assembler.Paragraph(block.Text, block.Bold, &result.Stats)
			c.recordFallbacks(result, block.Line, runs)
			document.Paragraph(runs)
		}
	}

	return document, result
}

func (c *Converter) recordFallbacks(result *Result, line int, runs []assembler.Run) {
	for _, run := range runs {
		if run.Kind != assembler.Fallback {
			continue
		}

		result.Fallbacks = append(result.Fallbacks, Fallback{Line: line, Source: run.Source})

		if c.verbose {
			fmt.Fprintln(c.log, warningFmt("line %d: formula rendered as text: %s", line, run.Source))
		}
	}
}
