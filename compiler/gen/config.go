package gen

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/syssam/pocogen/naming"
	"github.com/syssam/pocogen/schema"
)

// =============================================================================
// Settings
// =============================================================================

type (
	// Settings holds every option that shapes one generation run. A run works
	// on its own copy (see Config.Snapshot), so a Settings value is never
	// mutated while a run reads it.
	Settings struct {
		Connection   ConnectionSettings  `yaml:"connection"`
		Output       OutputSettings      `yaml:"output"`
		Objects      ObjectSettings      `yaml:"objects"`
		POCO         POCOSettings        `yaml:"poco"`
		ClassName    ClassNameSettings   `yaml:"class_name"`
		Navigation   NavigationSettings  `yaml:"navigation"`
		ComplexTypes ComplexTypeSettings `yaml:"complex_types"`
	}

	// ConnectionSettings select the metadata source.
	ConnectionSettings struct {
		// DSN is the connection string or URL of a live database.
		DSN string `yaml:"dsn"`
		// Dialect forces a dialect instead of detecting it from DSN.
		Dialect string `yaml:"dialect,omitempty"`
		// SchemaFile is a YAML schema document used instead of a live database.
		SchemaFile string `yaml:"schema_file,omitempty"`
		// Cache is a msgpack schema cache written by "pocogen inspect".
		Cache string `yaml:"cache,omitempty"`
		// Schemas restricts introspection to the named schemas.
		Schemas []string `yaml:"schemas,omitempty"`
	}

	// OutputSettings control the produced text and files.
	OutputSettings struct {
		// Package is the default package clause. Database Generating hooks may
		// override it per database.
		Package string `yaml:"package"`
		// Header is written at the top of every preamble.
		Header string `yaml:"header"`
		// Preamble enables the header, package clause and import block.
		Preamble bool `yaml:"preamble"`
		// PreamblePerObject repeats the preamble before every object.
		PreamblePerObject bool `yaml:"preamble_per_object"`
		// Target is the output file, or the output directory when
		// FilePerObject is set. Empty means no files are written.
		Target string `yaml:"target,omitempty"`
		// FilePerObject writes one file per object. Implies PreamblePerObject.
		FilePerObject bool `yaml:"file_per_object"`
		// Format runs goimports over written files.
		Format bool `yaml:"format"`
		// Workers bounds parallel file writes. Zero means GOMAXPROCS.
		Workers int `yaml:"workers,omitempty"`
	}

	// ObjectSettings select the objects to generate.
	ObjectSettings struct {
		// Include and Exclude are path.Match patterns matched against
		// "schema.name" and "name". An empty Include selects everything.
		Include    []string `yaml:"include,omitempty"`
		Exclude    []string `yaml:"exclude,omitempty"`
		Tables     bool     `yaml:"tables"`
		Views      bool     `yaml:"views"`
		Procedures bool     `yaml:"procedures"`
		Functions  bool     `yaml:"functions"`
		TVPs       bool     `yaml:"tvps"`
	}

	// POCOSettings toggle the emission steps of one struct.
	POCOSettings struct {
		// Attributes emits the doc comment above the declaration.
		Attributes bool `yaml:"attributes"`
		// Declaration emits the "type X struct {" header and closing brace.
		Declaration bool `yaml:"declaration"`
		// Members emits one field per column.
		Members bool `yaml:"members"`
		// Comments appends column and object comments.
		Comments bool `yaml:"comments"`
		// Tags lists the struct tag keys to emit, e.g. "json" and "db".
		Tags []string `yaml:"tags,omitempty"`
		// Enums selects how enum and set columns are typed.
		Enums EnumMode `yaml:"enums"`
		// Nullable selects how nullable columns are typed.
		Nullable NullMode `yaml:"nullable"`
		// Decimal selects the Go type of decimal columns.
		Decimal DecimalMode `yaml:"decimal"`
		// Constructor emits NewX when the struct needs initialization.
		Constructor bool `yaml:"constructor"`
		// Defaults renders column defaults as constructor initializers.
		Defaults bool `yaml:"defaults"`
		// ActionColumnsDefaultNow initializes action-named date-time columns
		// without a default (CreatedAt, ModifiedOn, ...) to time.Now().
		ActionColumnsDefaultNow bool `yaml:"action_columns_default_now"`
		// TableNameMethod emits a TableName method on table structs.
		TableNameMethod bool `yaml:"table_name_method"`
		// Parameters emits a Params struct for routines.
		Parameters bool `yaml:"parameters"`
	}

	// ClassNameSettings shape struct names.
	ClassNameSettings struct {
		// Singularize table and view names.
		Singularize bool `yaml:"singularize"`
		// Casing of the name. Pascal applies Go initialisms.
		Casing naming.Casing `yaml:"casing"`
		// Separator between words for casings other than Pascal.
		Separator string `yaml:"separator,omitempty"`
		Prefix    string `yaml:"prefix,omitempty"`
		Suffix    string `yaml:"suffix,omitempty"`
		// IncludeSchema prefixes the schema name when the dialect supports
		// schemas and the schema is not listed in DefaultSchemas.
		IncludeSchema  bool     `yaml:"include_schema"`
		DefaultSchemas []string `yaml:"default_schemas,omitempty"`
	}

	// NavigationSettings control relationship members.
	NavigationSettings struct {
		Enabled bool `yaml:"enabled"`
		// JoinTables navigates through pure join tables instead of giving
		// their endpoints direct many-to-many collections, and gives join
		// tables navigation members of their own.
		JoinTables bool `yaml:"join_tables"`
		// Pluralize collection names.
		Pluralize bool `yaml:"pluralize"`
		// Comments documents each navigation member with its foreign key.
		Comments bool `yaml:"comments"`
	}

	// ComplexTypeSettings control grouped-column detection and folding.
	ComplexTypeSettings struct {
		Enabled   bool   `yaml:"enabled"`
		Delimiter string `yaml:"delimiter"`
	}
)

// EnumMode selects how enum columns are typed.
type EnumMode string

// Enum modes.
const (
	EnumString EnumMode = "string"
	EnumTyped  EnumMode = "typed"
)

// NullMode selects how nullable columns are typed.
type NullMode string

// Null modes.
const (
	NullPointer NullMode = "pointer"
	NullSQL     NullMode = "sql"
)

// DecimalMode selects the Go type of decimal columns.
type DecimalMode string

// Decimal modes.
const (
	DecimalFloat DecimalMode = "float64"
	DecimalExact DecimalMode = "decimal"
)

// DefaultHeader is the default preamble header.
const DefaultHeader = "// Code generated by pocogen. DO NOT EDIT."

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Output: OutputSettings{
			Package:  "models",
			Header:   DefaultHeader,
			Preamble: true,
			Format:   true,
		},
		Objects: ObjectSettings{
			Tables:     true,
			Views:      true,
			Procedures: true,
			Functions:  true,
			TVPs:       true,
		},
		POCO: POCOSettings{
			Attributes:      true,
			Declaration:     true,
			Members:         true,
			Comments:        true,
			Tags:            []string{"json", "db"},
			Enums:           EnumTyped,
			Nullable:        NullPointer,
			Decimal:         DecimalFloat,
			Constructor:     true,
			Defaults:        true,
			TableNameMethod: true,
			Parameters:      true,
		},
		ClassName: ClassNameSettings{
			Singularize:    true,
			Casing:         naming.Pascal,
			DefaultSchemas: []string{"dbo", "public", "main"},
		},
		Navigation: NavigationSettings{
			Enabled:   true,
			Pluralize: true,
		},
		ComplexTypes: ComplexTypeSettings{
			Delimiter: "_",
		},
	}
}

// LoadSettings reads settings from a YAML file on top of DefaultSettings.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, NewConfigError("file", path, err.Error())
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks the settings for values no run could use.
func (s *Settings) Validate() error {
	switch s.POCO.Enums {
	case EnumString, EnumTyped:
	default:
		return NewConfigError("poco.enums", s.POCO.Enums, "use string or typed")
	}
	switch s.POCO.Nullable {
	case NullPointer, NullSQL:
	default:
		return NewConfigError("poco.nullable", s.POCO.Nullable, "use pointer or sql")
	}
	switch s.POCO.Decimal {
	case DecimalFloat, DecimalExact:
	default:
		return NewConfigError("poco.decimal", s.POCO.Decimal, "use float64 or decimal")
	}
	if s.Output.Package == "" {
		return NewConfigError("output.package", nil, "package cannot be empty")
	}
	if s.ComplexTypes.Enabled && s.ComplexTypes.Delimiter == "" {
		return NewConfigError("complex_types.delimiter", nil, "delimiter cannot be empty when complex types are enabled")
	}
	if s.Output.Workers < 0 {
		return NewConfigError("output.workers", s.Output.Workers, "workers cannot be negative")
	}
	if s.Connection.Dialect != "" {
		if _, err := schema.ParseDialect(s.Connection.Dialect); err != nil {
			return NewConfigError("connection.dialect", s.Connection.Dialect, err.Error())
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Connection.Schemas = slices.Clone(s.Connection.Schemas)
	c.Objects.Include = slices.Clone(s.Objects.Include)
	c.Objects.Exclude = slices.Clone(s.Objects.Exclude)
	c.POCO.Tags = slices.Clone(s.POCO.Tags)
	c.ClassName.DefaultSchemas = slices.Clone(s.ClassName.DefaultSchemas)
	return &c
}

// perObjectPreamble reports whether every object gets its own preamble.
func (s *Settings) perObjectPreamble() bool {
	return s.Output.Preamble && (s.Output.PreamblePerObject || s.Output.FilePerObject)
}

// =============================================================================
// Live configuration
// =============================================================================

// Config is the live, shared configuration. Every access goes through one
// lock; a generation run never reads Config directly but works on the copy
// returned by Snapshot.
type Config struct {
	mu       sync.RWMutex
	settings Settings
}

// Snapshot returns a deep copy of the current settings.
func (c *Config) Snapshot() *Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Clone()
}

// Update mutates the settings under the lock.
func (c *Config) Update(fn func(*Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.settings)
}

// Set replaces the settings after validating them.
func (c *Config) Set(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = *s.Clone()
	return nil
}

// Reset restores DefaultSettings.
func (c *Config) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = DefaultSettings()
}
