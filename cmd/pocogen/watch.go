package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/pocogen/compiler"
	"github.com/syssam/pocogen/compiler/gen"
)

// settle is how long the settings file must stay unchanged before a
// regeneration starts.
const settle = 200 * time.Millisecond

func newWatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the settings file changes",
		Long: `Watch builds the schema once and generates. Every later change of the
settings file regenerates against the same schema without loading it again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := opts.generator(cmd)
			if err != nil {
				return err
			}
			defer g.Close()
			if res := g.Build(cmd.Context()); !res.Succeeded() {
				return check(g, res)
			}
			if err := generate(cmd, g, false); err != nil {
				return err
			}
			return watch(cmd, g, opts.config)
		},
	}
	return cmd
}

// watch reloads the settings file on every change until the command
// context is done. The connection settings of the built schema are kept.
func watch(cmd *cobra.Command, g *compiler.Generator, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors replace files on save, so the directory is watched.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", path)
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == abs && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		case <-timer.C:
			if err := reload(g, path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "reload: %v\n", err)
				continue
			}
			if err := generate(cmd, g, false); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "generate: %v\n", err)
			}
		}
	}
}

// reload replaces the live settings with the file content.
func reload(g *compiler.Generator, path string) error {
	s, err := gen.LoadSettings(path)
	if err != nil {
		return err
	}
	s.Connection = g.Config().Snapshot().Connection
	return g.Config().Set(s)
}
