package cli

import (
	"fmt"
	"strings"

	"github.com/shibukawa/mdomml/assembler"
	"github.com/shibukawa/mdomml/canonicalizer"
)

// DetectCmd represents the detect command
type DetectCmd struct {
	Text  string `arg:"" optional:"" help:"Paragraph text (default: stdin, one paragraph per line)"`
	Latex bool   `short:"l" help:"Show the LaTeX generated for detected math"`
}

// Run executes the detect command
func (cmd *DetectCmd) Run(ctx *Context) error {
	input, err := ctx.input(cmd.Text)
	if err != nil {
		return err
	}

	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a := assembler.New(
		assembler.WithCanonicalizer(canonicalizer.New(config.Math.OperatorNames...)),
		assembler.WithDetection(config.Math.IsDetectionEnabled()),
	)

	out := ctx.stdout()

	for _, paragraph := range strings.Split(input, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}

		for _, segment := range a.Segments(paragraph) {
			fmt.Fprintf(out, "%d-%d %s %q\n", segment.Start, segment.End, segment.Kind, segment.Content)

			if cmd.Latex && segment.Kind == assembler.ImplicitMath {
				fmt.Fprintf(out, "  latex: %s\n", assembler.ToLatex(segment.Content))
			}
		}
	}

	return nil
}
