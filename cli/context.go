package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	// Stdout and Stdin default to the process streams
	Stdout io.Writer
	Stdin  io.Reader
}

// CLI represents the command-line interface
type CLI struct {
	Config  string     `help:"Configuration file path" default:"mdomml.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Convert ConvertCmd `cmd:"" help:"Convert Markdown files to .docx with native equations"`
	Math    MathCmd    `cmd:"" help:"Convert a single formula to OMML, MathML or an equation tree"`
	Detect  DetectCmd  `cmd:"" help:"Show how a paragraph splits into text and math"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Context builds the command context from the global flags
func (c *CLI) Context() *Context {
	return &Context{
		Config:  c.Config,
		Verbose: c.Verbose,
		Quiet:   c.Quiet,
	}
}

func (ctx *Context) stdout() io.Writer {
	if ctx.Stdout == nil {
		return os.Stdout
	}

	return ctx.Stdout
}

func (ctx *Context) stdin() io.Reader {
	if ctx.Stdin == nil {
		return os.Stdin
	}

	return ctx.Stdin
}

// input returns arg, or all of stdin when arg is empty
func (ctx *Context) input(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}

	data, err := io.ReadAll(ctx.stdin())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

// Version is the mdomml release
const Version = "v0.1.0"

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.stdout(), "mdomml "+Version)
	return nil
}
