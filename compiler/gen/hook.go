package gen

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/syssam/pocogen/schema"
)

// Level identifies a node of the traversal. Group levels (Tables, Views, ...)
// wrap the element levels of their objects (Table, View, ...).
type Level uint8

// Traversal levels, in visiting order.
const (
	LevelServer Level = iota
	LevelDatabase
	LevelTables
	LevelTable
	LevelComplexTypes
	LevelComplexType
	LevelViews
	LevelView
	LevelProcedures
	LevelProcedure
	LevelFunctions
	LevelFunction
	LevelTVPs
	LevelTVP
)

var levelNames = [...]string{
	LevelServer:       "server",
	LevelDatabase:     "database",
	LevelTables:       "tables",
	LevelTable:        "table",
	LevelComplexTypes: "complex types",
	LevelComplexType:  "complex type",
	LevelViews:        "views",
	LevelView:         "view",
	LevelProcedures:   "procedures",
	LevelProcedure:    "procedure",
	LevelFunctions:    "functions",
	LevelFunction:     "function",
	LevelTVPs:         "tvps",
	LevelTVP:          "tvp",
}

// String returns the level name.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ObjectLevel returns the element level of an object kind.
func ObjectLevel(k schema.Kind) Level {
	switch k {
	case schema.KindComplexType:
		return LevelComplexType
	case schema.KindView:
		return LevelView
	case schema.KindProcedure:
		return LevelProcedure
	case schema.KindFunction:
		return LevelFunction
	case schema.KindTVP:
		return LevelTVP
	default:
		return LevelTable
	}
}

// Phase is the point of a level a hook fires at.
type Phase uint8

// Hook phases.
const (
	// PhaseGenerating fires before a node is emitted. Listeners may skip the
	// node or stop the run.
	PhaseGenerating Phase = iota
	// PhaseGenerated fires after a node was emitted. Listeners may stop the
	// run; Skip is treated as Continue.
	PhaseGenerated
	// PhasePOCO fires after a single object was emitted, carrying its text.
	// It only fires when a listener is subscribed.
	PhasePOCO
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhaseGenerated:
		return "generated"
	case PhasePOCO:
		return "poco"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// HookID identifies one hook point.
type HookID struct {
	Level Level
	Phase Phase
}

// String returns "level/phase".
func (id HookID) String() string { return id.Level.String() + "/" + id.Phase.String() }

// Generating returns the Generating hook of l.
func Generating(l Level) HookID { return HookID{Level: l, Phase: PhaseGenerating} }

// Generated returns the Generated hook of l.
func Generated(l Level) HookID { return HookID{Level: l, Phase: PhaseGenerated} }

// POCO returns the POCO hook of l.
func POCO(l Level) HookID { return HookID{Level: l, Phase: PhasePOCO} }

// Action is the control decision of a synchronous listener.
type Action uint8

// Listener actions.
const (
	// Continue proceeds normally.
	Continue Action = iota
	// Skip omits the current node and its subtree and continues with its
	// siblings.
	Skip
	// Stop aborts the run. The server Generated hook still fires.
	Stop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Event is passed to listeners.
type Event struct {
	// ID of the hook that fired.
	ID HookID
	// Server being generated.
	Server *schema.Server
	// Database of the node, nil at server level.
	Database *schema.Database
	// Object of element levels, nil at server, database and group levels.
	Object schema.Object
	// Namespace is the package name of the database. Database Generating
	// listeners may change it.
	Namespace string
	// Text holds the generated text of Object. Set for POCO hooks only.
	Text string
}

type (
	// Listener is a synchronous hook. Its Action controls the traversal.
	Listener func(*Event) Action
	// AsyncListener receives a copy of the event on a background queue.
	// Errors are logged and never reach the run.
	AsyncListener func(Event) error
)

// =============================================================================
// Hooks
// =============================================================================

// Hooks is the live subscription table. It is safe for concurrent use. A run
// never reads it directly but dispatches through a Dispatcher created by
// Snapshot.
type Hooks struct {
	mu    sync.RWMutex
	sync  map[HookID][]Listener
	async map[HookID][]AsyncListener
}

// NewHooks returns an empty subscription table.
func NewHooks() *Hooks {
	return &Hooks{
		sync:  make(map[HookID][]Listener),
		async: make(map[HookID][]AsyncListener),
	}
}

// On subscribes a synchronous listener. Listeners run in subscription order.
func (h *Hooks) On(id HookID, l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sync[id] = append(h.sync[id], l)
}

// OnAsync subscribes an asynchronous listener.
func (h *Hooks) OnAsync(id HookID, l AsyncListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.async[id] = append(h.async[id], l)
}

// Clear removes the listeners of the given hooks, or all listeners when no
// hook is given.
func (h *Hooks) Clear(ids ...HookID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(ids) == 0 {
		clear(h.sync)
		clear(h.async)
		return
	}
	for _, id := range ids {
		delete(h.sync, id)
		delete(h.async, id)
	}
}

// Snapshot copies the current subscriptions into a Dispatcher private to one
// run. Async notifications are pushed onto q.
func (h *Hooks) Snapshot(q *Queue) *Dispatcher {
	h.mu.RLock()
	defer h.mu.RUnlock()
	d := &Dispatcher{
		sync:  make(map[HookID][]Listener, len(h.sync)),
		async: make(map[HookID][]AsyncListener, len(h.async)),
		queue: q,
	}
	for id, ls := range h.sync {
		d.sync[id] = slices.Clone(ls)
	}
	for id, ls := range h.async {
		d.async[id] = slices.Clone(ls)
	}
	return d
}

// Dispatcher fires hooks for one run. It is not safe for concurrent use.
type Dispatcher struct {
	sync  map[HookID][]Listener
	async map[HookID][]AsyncListener
	queue *Queue
}

// Subscribed reports whether any sync or async listener is subscribed to id.
func (d *Dispatcher) Subscribed(id HookID) bool {
	if d == nil {
		return false
	}
	return len(d.sync[id]) > 0 || len(d.async[id]) > 0
}

// Fire runs the synchronous listeners of ev.ID in order and then queues the
// asynchronous ones with a copy of the event. Dispatch stops at the first
// listener returning Stop. Otherwise Skip wins over Continue. Generated
// hooks never report Skip.
func (d *Dispatcher) Fire(ev *Event) Action {
	if d == nil {
		return Continue
	}
	act := Continue
	for _, l := range d.sync[ev.ID] {
		switch l(ev) {
		case Stop:
			act = Stop
		case Skip:
			act = Skip
		}
		if act == Stop {
			break
		}
	}
	if ev.ID.Phase == PhaseGenerated && act == Skip {
		act = Continue
	}
	if ls := d.async[ev.ID]; len(ls) > 0 && d.queue != nil {
		cp := *ev
		for _, l := range ls {
			d.queue.Push(ev.ID.String(), func() error { return l(cp) })
		}
	}
	return act
}

// logAttrs returns the slog attributes describing ev.
func (ev *Event) logAttrs() []any {
	attrs := []any{slog.String("hook", ev.ID.String())}
	if ev.Object != nil {
		attrs = append(attrs, slog.String("object", ev.Object.Info().QualifiedName()))
	}
	return attrs
}
