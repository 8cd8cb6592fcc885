package gen

import (
	"errors"
	"path"
	"slices"
)

// Option configures generation settings.
type Option func(*Settings) error

// WithHeader sets the file header comment.
// The header is added at the top of each preamble.
func WithHeader(header string) Option {
	return func(s *Settings) error {
		s.Output.Header = header
		return nil
	}
}

// WithPackage sets the package clause of generated files.
func WithPackage(pkg string) Option {
	return func(s *Settings) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		s.Output.Package = pkg
		return nil
	}
}

// WithTarget sets the output file, or the output directory when one file is
// written per object.
func WithTarget(target string) Option {
	return func(s *Settings) error {
		if target == "" {
			return NewConfigError("Target", nil, "target cannot be empty")
		}
		s.Output.Target = target
		return nil
	}
}

// WithFilePerObject writes one file per generated object.
func WithFilePerObject(on bool) Option {
	return func(s *Settings) error {
		s.Output.FilePerObject = on
		return nil
	}
}

// WithDSN sets the connection string of the database to introspect.
func WithDSN(dsn string) Option {
	return func(s *Settings) error {
		s.Connection.DSN = dsn
		return nil
	}
}

// WithSchemaFile reads the schema from a YAML document instead of a database.
func WithSchemaFile(file string) Option {
	return func(s *Settings) error {
		if file == "" {
			return NewConfigError("SchemaFile", nil, "schema file cannot be empty")
		}
		s.Connection.SchemaFile = file
		return nil
	}
}

// WithInclude adds object selection patterns.
func WithInclude(patterns ...string) Option {
	return func(s *Settings) error {
		if err := checkPatterns(patterns); err != nil {
			return err
		}
		s.Objects.Include = append(s.Objects.Include, patterns...)
		return nil
	}
}

// WithExclude adds object exclusion patterns.
func WithExclude(patterns ...string) Option {
	return func(s *Settings) error {
		if err := checkPatterns(patterns); err != nil {
			return err
		}
		s.Objects.Exclude = append(s.Objects.Exclude, patterns...)
		return nil
	}
}

// WithTags sets the struct tag keys emitted for every member.
func WithTags(keys ...string) Option {
	return func(s *Settings) error {
		s.POCO.Tags = slices.Clone(keys)
		return nil
	}
}

// WithEnums sets how enum columns are typed.
func WithEnums(mode EnumMode) Option {
	return func(s *Settings) error {
		switch mode {
		case EnumString, EnumTyped:
			s.POCO.Enums = mode
			return nil
		default:
			return NewConfigError("Enums", mode, "unsupported enum mode; use string or typed")
		}
	}
}

// WithNullable sets how nullable columns are typed.
func WithNullable(mode NullMode) Option {
	return func(s *Settings) error {
		switch mode {
		case NullPointer, NullSQL:
			s.POCO.Nullable = mode
			return nil
		default:
			return NewConfigError("Nullable", mode, "unsupported null mode; use pointer or sql")
		}
	}
}

// WithDecimal sets the Go type of decimal columns.
func WithDecimal(mode DecimalMode) Option {
	return func(s *Settings) error {
		switch mode {
		case DecimalFloat, DecimalExact:
			s.POCO.Decimal = mode
			return nil
		default:
			return NewConfigError("Decimal", mode, "unsupported decimal mode; use float64 or decimal")
		}
	}
}

// WithNavigation enables or disables navigation members.
func WithNavigation(on bool) Option {
	return func(s *Settings) error {
		s.Navigation.Enabled = on
		return nil
	}
}

// WithJoinTables navigates through join tables instead of linking their
// endpoints with direct many-to-many collections.
func WithJoinTables(on bool) Option {
	return func(s *Settings) error {
		s.Navigation.JoinTables = on
		return nil
	}
}

// WithComplexTypes enables grouped-column folding with the given delimiter.
func WithComplexTypes(delimiter string) Option {
	return func(s *Settings) error {
		if delimiter == "" {
			return NewConfigError("ComplexTypes", nil, "delimiter cannot be empty")
		}
		s.ComplexTypes.Enabled = true
		s.ComplexTypes.Delimiter = delimiter
		return nil
	}
}

func checkPatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return NewConfigError("Pattern", p, err.Error())
		}
	}
	return nil
}

// Apply applies options to the settings.
// It returns the first error encountered.
func (s *Settings) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (s *Settings) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a live Config from DefaultSettings and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	s := DefaultSettings()
	if err := s.Apply(opts...); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Config{settings: s}, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
