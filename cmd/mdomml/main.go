package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shibukawa/mdomml/cli"
)

func main() {
	var app cli.CLI

	ctx := kong.Parse(&app,
		kong.Name("mdomml"),
		kong.Description("Convert Markdown with LaTeX math into Word documents with native equations"),
	)

	err := ctx.Run(app.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
