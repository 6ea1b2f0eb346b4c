package core

import "github.com/google/uuid"

// Route is a table entry: the descriptor and the callable bound to it.
type Route struct {
	Descriptor
	Invoke Invoker
}

// Collision records a key that more than one descriptor normalized to.
// The later descriptor replaced the earlier one; this is intentional.
type Collision struct {
	Key      string
	Replaced Descriptor
	Winner   Descriptor
}

// Table is an immutable, insertion-ordered path -> route mapping.
// Build one with TableBuilder and share it freely between goroutines.
type Table struct {
	generation string
	order      []string
	routes     map[string]Route
	skipped    []Skipped
	collisions []Collision
}

// Lookup normalizes p and returns the route stored under it.
func (t *Table) Lookup(p string) (Route, bool) {
	if t == nil {
		return Route{}, false
	}
	rt, ok := t.routes[NormalizePath(p)]
	return rt, ok
}

// Routes returns the entries in first-insertion order.
func (t *Table) Routes() []Route {
	if t == nil {
		return nil
	}
	out := make([]Route, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.routes[k])
	}
	return out
}

// Generation identifies the build that produced t.
func (t *Table) Generation() string {
	if t == nil {
		return ""
	}
	return t.generation
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Skipped lists the candidates that were discovered but not routed.
func (t *Table) Skipped() []Skipped {
	if t == nil {
		return nil
	}
	return append([]Skipped(nil), t.skipped...)
}

func (t *Table) Collisions() []Collision {
	if t == nil {
		return nil
	}
	return append([]Collision(nil), t.collisions...)
}

// TableBuilder accumulates routes for a single scan generation.
// Not safe for concurrent use; publish the built Table instead.
type TableBuilder struct {
	t *Table
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{t: &Table{generation: uuid.New().String(), routes: make(map[string]Route)}}
}

// Add inserts rt under its normalized key. A later Add with the same key
// wins, keeping the position of the first insertion.
func (b *TableBuilder) Add(rt Route) {
	k := rt.Key()
	if prev, ok := b.t.routes[k]; ok {
		b.t.collisions = append(b.t.collisions, Collision{Key: k, Replaced: prev.Descriptor, Winner: rt.Descriptor})
	} else {
		b.t.order = append(b.t.order, k)
	}
	b.t.routes[k] = rt
}

func (b *TableBuilder) Skip(s ...Skipped) {
	b.t.skipped = append(b.t.skipped, s...)
}

// Build hands over the table. The builder must not be used afterwards.
func (b *TableBuilder) Build() *Table {
	t := b.t
	b.t = nil
	return t
}
