package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/mdomml"
	"github.com/shibukawa/mdomml/converter"
)

// ErrOutputWithMultipleInputs is returned when --output is combined with several inputs
var ErrOutputWithMultipleInputs = errors.New("--output requires a single input file")

// ConvertCmd represents the convert command
type ConvertCmd struct {
	Input  []string `arg:"" help:"Markdown files to convert" type:"path"`
	Output string   `short:"o" help:"Output .docx file (single input only)" type:"path"`
}

// Run executes the convert command
func (cmd *ConvertCmd) Run(ctx *Context) error {
	if cmd.Output != "" && len(cmd.Input) > 1 {
		return ErrOutputWithMultipleInputs
	}

	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var opts []converter.Option
	if ctx.Verbose {
		opts = append(opts, converter.WithVerbose(ctx.stdout()))
	}

	c := converter.New(config, opts...)

	var total mdomml.Stats

	for _, input := range cmd.Input {
		if ctx.Verbose {
			color.Blue("Converting %s", input)
		}

		result, err := c.ConvertFile(input, cmd.Output)
		if err != nil {
			return err
		}

		total.Merge(result.Stats)

		if ctx.Quiet {
			continue
		}

		color.Green("Converted %s -> %s", input, result.Output)
		printStats(ctx, result.Stats)

		if len(result.Fallbacks) > 0 {
			color.Yellow("%d formula(s) could not be converted and were written as text", len(result.Fallbacks))
		}
	}

	if len(cmd.Input) > 1 && !ctx.Quiet {
		color.Green("Converted %d files", len(cmd.Input))
		printStats(ctx, total)
	}

	return nil
}

func printStats(ctx *Context, stats mdomml.Stats) {
	out := ctx.stdout()
	fmt.Fprintf(out, "  Block formulas:  %d\n", stats.Block)
	fmt.Fprintf(out, "  Inline formulas: %d\n", stats.Inline)
	fmt.Fprintf(out, "  Total:           %d\n", stats.Total())
}
