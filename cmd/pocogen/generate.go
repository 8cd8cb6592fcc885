package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/pocogen/compiler"
	"github.com/syssam/pocogen/compiler/gen"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var (
		out      string
		colorize bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the schema and generate Go structs",
		Long: `Generate loads the schema from the configured source, then writes the
generated structs to the output target. Without a target the text is
printed to standard output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := opts.generator(cmd)
			if err != nil {
				return err
			}
			defer g.Close()
			if out != "" {
				g.Config().Update(func(s *gen.Settings) { s.Output.Target = out })
			}
			if res := g.Build(cmd.Context()); !res.Succeeded() {
				return check(g, res)
			}
			return generate(cmd, g, colorize)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, or directory with one file per object")
	cmd.Flags().BoolVar(&colorize, "color", false, "Colorize text printed to standard output")
	return cmd
}

// generate runs one generation pass against the built schema.
func generate(cmd *cobra.Command, g *compiler.Generator, colorize bool) error {
	var sink gen.Sink = &gen.BufferSink{}
	target := g.Config().Snapshot().Output.Target
	if target == "" {
		prev := color.NoColor
		color.NoColor = !colorize
		defer func() { color.NoColor = prev }()
		sink = gen.NewColorSink(cmd.OutOrStdout())
	}
	res := g.Generate(cmd.Context(), sink)
	if err := check(g, res); err != nil {
		return err
	}
	if target != "" {
		o := g.Output()
		fmt.Fprintf(cmd.OutOrStdout(), "%d files written to %s (%s, %d warnings)\n", len(o.Files), target, res, o.Warnings)
	}
	return nil
}
