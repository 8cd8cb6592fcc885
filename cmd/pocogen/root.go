package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/pocogen/compiler"
	"github.com/syssam/pocogen/compiler/gen"
)

// options are the flags shared by every command.
type options struct {
	config  string
	dsn     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "pocogen",
		Short:        "Generate Go structs from a relational schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.config, "config", "c", "pocogen.yaml", "Settings file")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Connection string, overrides the settings file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log build and generation details")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	return root
}

// generator returns a generator configured from the settings file and flags.
func (o *options) generator(cmd *cobra.Command) (*compiler.Generator, error) {
	g, err := compiler.New(nil,
		compiler.WithLogger(o.logger(cmd.ErrOrStderr())),
		compiler.WithSettingsFile(o.config),
	)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if o.dsn != "" {
		g.Config().Update(func(s *gen.Settings) {
			s.Connection.DSN = o.dsn
			s.Connection.SchemaFile = ""
			s.Connection.Cache = ""
		})
	}
	return g, nil
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// check turns a failed result into an error.
func check(g *compiler.Generator, res compiler.Result) error {
	if res.Succeeded() {
		return nil
	}
	if err := g.Err(); err != nil {
		return fmt.Errorf("%s: %w", res, err)
	}
	return errors.New(res.String())
}
