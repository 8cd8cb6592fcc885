package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/pocogen/compiler/load"
)

func newInspectCmd(opts *options) *cobra.Command {
	var cache string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Build the schema and save it to a cache file",
		Long: `Inspect loads the schema from the configured source and saves it to a
msgpack cache. Point connection.cache at the file to generate without the
database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := opts.generator(cmd)
			if err != nil {
				return err
			}
			defer g.Close()
			res := g.Build(cmd.Context())
			if err := check(g, res); err != nil {
				return err
			}
			f, err := os.Create(cache)
			if err != nil {
				return fmt.Errorf("create cache: %w", err)
			}
			if err := load.SaveCache(f, g.Server()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close cache: %w", err)
			}
			srv := g.Server()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema of %s saved to %s (%s)\n", srv.Dialect, srv.Name, cache, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&cache, "cache", "schema.msgpack", "Cache file to write")
	return cmd
}
