package compiler

import (
	"log/slog"

	"github.com/syssam/pocogen/compiler/gen"
)

// Option configures a Generator.
type Option func(*Generator) error

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) error {
		if l == nil {
			return gen.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		g.log = l
		return nil
	}
}

// WithSettings applies settings options to the live configuration. Every
// failing option is reported.
func WithSettings(opts ...gen.Option) Option {
	return func(g *Generator) error {
		s := g.config.Snapshot()
		if err := s.ApplyAll(opts...); err != nil {
			return err
		}
		return g.config.Set(*s)
	}
}

// WithSettingsFile loads the live configuration from a YAML file.
func WithSettingsFile(path string) Option {
	return func(g *Generator) error {
		s, err := gen.LoadSettings(path)
		if err != nil {
			return err
		}
		return g.config.Set(s)
	}
}
