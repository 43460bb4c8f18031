package cli

import (
	"fmt"
	"strings"

	"github.com/shibukawa/mdomml"
	"github.com/shibukawa/mdomml/canonicalizer"
	"github.com/shibukawa/mdomml/formatter"
	"github.com/shibukawa/mdomml/latexparser"
	"github.com/shibukawa/mdomml/mathml"
	"github.com/shibukawa/mdomml/omml"
)

// MathCmd represents the math command
type MathCmd struct {
	Formula string `arg:"" optional:"" help:"LaTeX formula (default: stdin)"`
	Format  string `short:"f" enum:"omml,mathml,tree" default:"omml" help:"Output format (omml, mathml, tree)"`
	Display bool   `short:"d" help:"Wrap OMML output as a display formula"`
	MathML  bool   `name:"mathml" help:"Read the input as MathML XML instead of LaTeX"`
}

// Run executes the math command
func (cmd *MathCmd) Run(ctx *Context) error {
	input, err := ctx.input(cmd.Formula)
	if err != nil {
		return err
	}

	node, err := cmd.parse(ctx, input)
	if err != nil {
		return err
	}

	var output string

	switch cmd.Format {
	case "mathml":
		output, err = mathml.MarshalString(node)
		if err != nil {
			return fmt.Errorf("failed to write MathML: %w", err)
		}
	default:
		expr := omml.Convert(node)
		if len(expr) == 0 {
			return mdomml.ErrUnconvertible
		}

		if cmd.Format == "tree" {
			output = formatter.NewTreeFormatter().Format(expr)
			break
		}

		output, err = omml.MarshalString(expr, cmd.Display)
		if err != nil {
			return fmt.Errorf("failed to write OMML: %w", err)
		}
	}

	fmt.Fprint(ctx.stdout(), output)

	if !strings.HasSuffix(output, "\n") {
		fmt.Fprintln(ctx.stdout())
	}

	return nil
}

func (cmd *MathCmd) parse(ctx *Context, input string) (*mathml.Node, error) {
	if cmd.MathML {
		node, err := mathml.ParseXML(input)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MathML: %w", err)
		}

		return node, nil
	}

	source := strings.TrimSpace(strings.Trim(strings.TrimSpace(input), "$"))
	if source == "" {
		return nil, mdomml.ErrEmptyFormula
	}

	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	canonical := canonicalizer.New(config.Math.OperatorNames...).Canonicalize(source)
	if ctx.Verbose {
		fmt.Fprintf(ctx.stdout(), "canonical: %s\n", canonical)
	}

	node, err := latexparser.Parse(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to parse formula: %w", err)
	}

	return node, nil
}
