package gen

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/syssam/pocogen/naming"
	"github.com/syssam/pocogen/schema"
)

// File is one generated file, named relative to the output directory.
type File struct {
	Name    string
	Content []byte
}

// Output is the result of one run.
type Output struct {
	// Text is everything appended to the sink during the run.
	Text string
	// Files holds the text split into files: one file per object when
	// Output.FilePerObject is set, a single file otherwise.
	Files []File
	// Warnings counts objects rendered as error comments and objects whose
	// text could not be captured for their POCO hook.
	Warnings int
	// Stopped reports that a listener stopped the run.
	Stopped bool
}

// Engine walks a built schema and emits Go source. An Engine belongs to one
// run: it reads only its settings snapshot and its dispatcher.
type Engine struct {
	settings *Settings
	hooks    *Dispatcher
	log      *slog.Logger
}

// NewEngine returns an engine for one run. A nil dispatcher fires nothing and
// a nil logger uses slog.Default.
func NewEngine(s *Settings, d *Dispatcher, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{settings: s, hooks: d, log: log}
}

// run holds the state of one traversal.
type run struct {
	*Engine
	srv       *schema.Server
	out       *tee
	emit      *emitter
	models    map[schema.Object]*objectModel
	imports   []string
	namespace string
	preamble  bool
	output    *Output
}

// Run emits srv into sink. A nil sink discards text; the text is always
// available in the returned Output. Run fails only when the server dialect
// has no registered strategies.
func (e *Engine) Run(srv *schema.Server, sink Sink) (*Output, error) {
	d, err := LookupDialect(srv.Dialect)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = &BufferSink{}
	}
	r := &run{
		Engine:    e,
		srv:       srv,
		out:       &tee{sink: sink},
		namespace: e.settings.Output.Package,
		output:    &Output{},
	}
	r.emit = &emitter{out: r.out, poco: &e.settings.POCO, nav: &e.settings.Navigation}
	r.plan(d)
	r.out.Clear()
	r.server()
	r.output.Text = r.out.buf.String()
	if !e.settings.Output.FilePerObject {
		r.output.Files = []File{{Name: e.settings.singleFileName(), Content: []byte(r.output.Text)}}
	}
	return r.output, nil
}

// =============================================================================
// Planning
// =============================================================================

// plan names every object of the run and builds the models of the objects
// to generate.
func (r *run) plan(d Dialect) {
	s := r.settings
	b := &builder{
		settings: s,
		caps:     r.srv.Capabilities,
		types:    typeMapper{dialect: d, poco: &s.POCO},
		defaults: defaultRenderer{dialect: d, poco: &s.POCO},
		classes:  make(map[schema.Object]string),
		taken:    make(map[string]struct{}),
	}
	var (
		objs  []schema.Object
		cands []naming.Candidate
	)
	for _, db := range r.srv.Databases {
		for _, o := range r.candidates(db) {
			objs = append(objs, o)
			cands = append(cands, naming.Candidate{Name: className(&s.ClassName, b.caps, o)})
		}
	}
	for i, name := range naming.Disambiguate(cands) {
		b.classes[objs[i]] = name
		b.taken[name] = struct{}{}
	}
	r.models = make(map[schema.Object]*objectModel)
	set := make(map[string]struct{})
	for _, o := range objs {
		if !r.generated(o) {
			continue
		}
		m := b.model(o)
		r.models[o] = m
		for _, p := range m.imports {
			set[p] = struct{}{}
		}
	}
	r.imports = sortImports(set)
}

// candidates returns the objects of db that need a class name: generated
// objects and tables reachable from them.
func (r *run) candidates(db *schema.Database) []schema.Object {
	var objs []schema.Object
	for _, t := range db.Tables {
		if r.generated(t) || db.IsAccessible(t) {
			objs = append(objs, t)
		}
	}
	for _, ct := range r.complexTypes(db) {
		objs = append(objs, ct)
	}
	for _, o := range db.Objects() {
		if o.Kind() != schema.KindTable && r.generated(o) {
			objs = append(objs, o)
		}
	}
	return objs
}

// generated reports whether o is emitted by this run.
func (r *run) generated(o schema.Object) bool {
	obj := &r.settings.Objects
	switch o := o.(type) {
	case *schema.Table:
		return obj.Tables && o.Included
	case *schema.ComplexTypeTable:
		if !r.settings.ComplexTypes.Enabled {
			return false
		}
		for _, t := range o.Owners {
			if r.generated(t) {
				return true
			}
		}
		return false
	case *schema.View:
		return obj.Views && o.Included
	case *schema.Procedure:
		return obj.Procedures && o.Included
	case *schema.Function:
		return obj.Functions && o.Included
	case *schema.TVP:
		return obj.TVPs && o.Included
	}
	return false
}

// complexTypes returns the generated complex types of db in detection order.
func (r *run) complexTypes(db *schema.Database) []*schema.ComplexTypeTable {
	var (
		cts  []*schema.ComplexTypeTable
		seen = make(map[*schema.ComplexTypeTable]struct{})
	)
	for _, t := range db.Tables {
		for _, ct := range t.ComplexTypes {
			if _, ok := seen[ct]; ok {
				continue
			}
			seen[ct] = struct{}{}
			if r.generated(ct) {
				cts = append(cts, ct)
			}
		}
	}
	return cts
}

// =============================================================================
// Traversal
// =============================================================================

// fire dispatches a hook and records a Stop on the output.
func (r *run) fire(ev *Event) Action {
	ev.Server = r.srv
	if ev.Namespace == "" {
		ev.Namespace = r.namespace
	}
	act := r.hooks.Fire(ev)
	if act == Stop {
		r.output.Stopped = true
		r.log.Debug("generation stopped by hook", ev.logAttrs()...)
	}
	return act
}

func (r *run) server() {
	if r.fire(&Event{ID: Generating(LevelServer)}) == Continue {
		for _, db := range r.srv.Databases {
			if !r.database(db) {
				break
			}
		}
	}
	r.fire(&Event{ID: Generated(LevelServer)})
}

// database emits db and reports whether the run goes on.
func (r *run) database(db *schema.Database) bool {
	ev := &Event{ID: Generating(LevelDatabase), Database: db, Namespace: r.settings.Output.Package}
	switch r.fire(ev) {
	case Stop:
		return false
	case Skip:
		return true
	}
	if ev.Namespace != "" {
		r.namespace = ev.Namespace
	}
	if r.settings.Output.Preamble && !r.settings.perObjectPreamble() && !r.preamble {
		r.emit.preamble(r.settings.Output.Header, r.namespace, r.imports)
		r.preamble = true
	}
	obj := &r.settings.Objects
	groups := []struct {
		on    bool
		level Level
		objs  []schema.Object
	}{
		{obj.Tables, LevelTables, objects(db.Tables)},
		{obj.Views, LevelViews, objects(db.Views)},
		{obj.Procedures, LevelProcedures, objects(db.Procedures)},
		{obj.Functions, LevelFunctions, objects(db.Functions)},
		{obj.TVPs, LevelTVPs, objects(db.TVPs)},
	}
	for _, g := range groups {
		if !g.on {
			continue
		}
		var nested func() bool
		if g.level == LevelTables && r.settings.ComplexTypes.Enabled {
			nested = func() bool {
				return r.group(db, LevelComplexTypes, objects(r.complexTypes(db)), nil)
			}
		}
		if !r.group(db, g.level, g.objs, nested) {
			return false
		}
	}
	return r.fire(&Event{ID: Generated(LevelDatabase), Database: db}) != Stop
}

// group emits a group level and its objects, then the nested group, and
// reports whether the run goes on.
func (r *run) group(db *schema.Database, level Level, objs []schema.Object, nested func() bool) bool {
	switch r.fire(&Event{ID: Generating(level), Database: db}) {
	case Stop:
		return false
	case Skip:
		return true
	}
	for _, o := range objs {
		if _, ok := r.models[o]; !ok {
			continue
		}
		if !r.object(db, o) {
			return false
		}
	}
	if nested != nil && !nested() {
		return false
	}
	return r.fire(&Event{ID: Generated(level), Database: db}) != Stop
}

// object emits one object between its hooks and reports whether the run
// goes on.
func (r *run) object(db *schema.Database, o schema.Object) bool {
	level := ObjectLevel(o.Kind())
	switch r.fire(&Event{ID: Generating(level), Database: db, Object: o}) {
	case Stop:
		return false
	case Skip:
		return true
	}
	m := r.models[o]
	capture := r.hooks.Subscribed(POCO(level))
	if capture {
		if err := r.out.StartSnapshot(); err != nil {
			r.log.Warn("cannot capture object text", slog.String("object", o.Info().QualifiedName()), slog.Any("error", err))
			r.output.Warnings++
			capture = false
		}
	}
	start := r.out.offset()
	if r.settings.perObjectPreamble() {
		r.emit.preamble(r.settings.Output.Header, r.namespace, m.imports)
	}
	if o.Info().HasError() {
		r.emit.failure(o, m.class)
		r.output.Warnings++
	} else {
		r.emit.object(m)
	}
	if r.settings.Output.FilePerObject {
		r.output.Files = append(r.output.Files, File{Name: fileName(m.class), Content: []byte(r.out.since(start))})
	}
	if capture {
		text, err := r.out.EndSnapshot()
		if err != nil {
			r.log.Warn("cannot capture object text", slog.String("object", o.Info().QualifiedName()), slog.Any("error", err))
			r.output.Warnings++
		} else if r.fire(&Event{ID: POCO(level), Database: db, Object: o, Text: text}) == Stop {
			return false
		}
	}
	return r.fire(&Event{ID: Generated(level), Database: db, Object: o}) != Stop
}

func objects[T schema.Object](in []T) []schema.Object {
	out := make([]schema.Object, len(in))
	for i, o := range in {
		out[i] = o
	}
	return out
}

// singleFileName returns the file name used when all objects share one file.
func (s *Settings) singleFileName() string {
	if strings.HasSuffix(s.Output.Target, ".go") {
		return filepath.Base(s.Output.Target)
	}
	return s.Output.Package + ".go"
}

// outputDir returns the directory files are written to.
func (s *Settings) outputDir() string {
	if !s.Output.FilePerObject && strings.HasSuffix(s.Output.Target, ".go") {
		return filepath.Dir(s.Output.Target)
	}
	return s.Output.Target
}
