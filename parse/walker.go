package parse

import "io"

// EventKind tells whether the walker enters an entry or meets it again.
type EventKind int

const (
	Visit EventKind = iota
	Revisit
)

var eventKindNames = map[EventKind]string{
	Visit:   "visit",
	Revisit: "revisit",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is emitted for every entry the walker reaches. Index is the entry
// set of the entry, which equals the number of tokens consumed so far.
type Event struct {
	Kind  EventKind
	Entry *Entry
	Ref   Ref
	Index int
}

// WalkOption configures a Walker.
type WalkOption func(*walkConfig)

type walkConfig struct {
	all    bool
	replay bool
}

// AllAlternatives makes the walker follow every antecedent of end and
// item entries instead of the first one only.
func AllAlternatives() WalkOption {
	return func(c *walkConfig) {
		c.all = true
	}
}

// ReplayShared makes the walker walk again the derivation of an end entry
// it has already completed, instead of emitting a Revisit for it. End
// entries still open on the walk are always revisited.
func ReplayShared() WalkOption {
	return func(c *walkConfig) {
		c.replay = true
	}
}

type stepKind int

const (
	stepEnd   stepKind = iota // enter the derivation of an end entry
	stepItem                  // visit an item entry and queue its predecessors
	stepFork                  // backtrack to an item with several end antecedents
	stepStart                 // close the derivation of an end entry
)

type step struct {
	kind stepKind
	ref  Ref
}

// Walker replays the derivations of a successful parse backward, from
// the accepting entry to the start entry of set 0. The events form a
// nested sequence: an end entry is visited, then each of its alternatives
// from exit item down to entry item, then its start entry.
type Walker struct {
	chart  *Chart
	config walkConfig
	stack  []step
	open   map[Ref]bool
	done   map[Ref]bool
	starts map[Ref]bool
}

// NewWalker creates a walker over r. It fails with ErrNotAccepted when the
// parse did not succeed.
func NewWalker(r *Result, opts ...WalkOption) (*Walker, error) {
	if !r.Success() {
		return nil, ErrNotAccepted
	}
	w := &Walker{
		chart:  r.chart,
		open:   make(map[Ref]bool),
		done:   make(map[Ref]bool),
		starts: make(map[Ref]bool),
	}
	for _, opt := range opts {
		opt(&w.config)
	}
	w.push(stepEnd, r.accept)
	return w, nil
}

func (w *Walker) push(kind stepKind, ref Ref) {
	w.stack = append(w.stack, step{kind: kind, ref: ref})
}

// Next returns the next event, io.EOF once the walk is complete, or an
// *InternalError if the chart is inconsistent.
func (w *Walker) Next() (Event, error) {
	if len(w.stack) == 0 {
		return Event{}, io.EOF
	}
	s := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]

	e := w.chart.Entry(s.ref)
	if e == nil {
		return Event{}, Internalf(s.ref, "no such entry")
	}
	switch s.kind {
	case stepEnd:
		return w.end(s.ref, e)
	case stepItem:
		return w.item(s.ref, e)
	case stepFork:
		return w.event(Revisit, s.ref, e), nil
	case stepStart:
		return w.start(s.ref, e)
	}
	return Event{}, Internalf(s.ref, "unknown walk step %d", s.kind)
}

func (w *Walker) event(kind EventKind, ref Ref, e *Entry) Event {
	return Event{Kind: kind, Entry: e, Ref: ref, Index: ref.Set}
}

func (w *Walker) end(ref Ref, e *Entry) (Event, error) {
	if !e.IsEnd() {
		return Event{}, Internalf(ref, "%s is not an end entry", e)
	}
	if w.open[ref] || (w.done[ref] && !w.config.replay) {
		return w.event(Revisit, ref, e), nil
	}
	if len(e.Antecedents) == 0 {
		return Event{}, Internalf(ref, "end entry %s has no exit item", e)
	}

	w.open[ref] = true
	w.push(stepStart, ref)
	alts := w.alternatives(e)
	for i := len(alts) - 1; i >= 0; i-- {
		w.push(stepItem, alts[i])
	}
	return w.event(Visit, ref, e), nil
}

func (w *Walker) item(ref Ref, e *Entry) (Event, error) {
	if !e.IsItem() {
		return Event{}, Internalf(ref, "%s is not an item entry", e)
	}
	ev := w.event(Visit, ref, e)
	if e.IsEntryItem() {
		return ev, nil
	}
	if len(e.Antecedents) == 0 {
		return Event{}, Internalf(ref, "item entry %s has no antecedent", e)
	}

	if e.Vertex.PrevSymbol().IsTerminal() {
		w.push(stepItem, e.Antecedents[0])
		return ev, nil
	}

	ends := w.alternatives(e)
	for i := len(ends) - 1; i >= 0; i-- {
		caller, ok := w.chart.Caller(ref, ends[i])
		if !ok {
			return Event{}, Internalf(ref, "no caller of %s for %s", e, w.chart.Entry(ends[i]))
		}
		w.push(stepItem, caller)
		w.push(stepEnd, ends[i])
		if i > 0 {
			w.push(stepFork, ref)
		}
	}
	return ev, nil
}

func (w *Walker) start(end Ref, e *Entry) (Event, error) {
	ref, ok := w.chart.StartOf(end)
	if !ok {
		return Event{}, Internalf(end, "no start entry for %s", e)
	}
	delete(w.open, end)
	w.done[end] = true

	kind := Visit
	if w.starts[ref] {
		kind = Revisit
	}
	w.starts[ref] = true
	return w.event(kind, ref, w.chart.Entry(ref)), nil
}

func (w *Walker) alternatives(e *Entry) []Ref {
	if w.config.all {
		return e.Antecedents
	}
	return e.Antecedents[:1]
}

// Walk calls fn for every event until the walk completes or fn fails.
func Walk(r *Result, fn func(Event) error, opts ...WalkOption) error {
	w, err := NewWalker(r, opts...)
	if err != nil {
		return err
	}
	for {
		ev, err := w.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
