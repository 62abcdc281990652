package kernel

import (
	"sort"

	"principia/internal/term"
)

// Schema is a named rule's shape: zero or more premises and one
// conclusion, any of which may contain metavariables. Schemas are created
// by successful postulate/theorem commands and never mutated afterward.
type Schema struct {
	Premises   []term.Term
	Conclusion term.Term
}

// UnboundPremiseVars returns metavariables that occur in a premise but not
// in the conclusion. Such a schema cannot be fully instantiated from a
// goal alone; the driver surfaces this as an authoring warning.
func (s Schema) UnboundPremiseVars() []string {
	inConclusion := make(map[string]bool)
	for _, v := range term.Vars(s.Conclusion) {
		inConclusion[v] = true
	}
	var loose []string
	seen := make(map[string]bool)
	for _, p := range s.Premises {
		for _, v := range term.Vars(p) {
			if !inConclusion[v] && !seen[v] {
				seen[v] = true
				loose = append(loose, v)
			}
		}
	}
	return loose
}

// Context is the store of named schemas available to proofs. It grows
// monotonically within a run; the checker only ever reads it. Commits
// happen strictly after a whole command succeeds, so a failed check never
// adds or corrupts an entry.
type Context struct {
	schemas map[string]Schema
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{schemas: make(map[string]Schema)}
}

// Has reports whether name is defined.
func (c *Context) Has(name string) bool {
	_, ok := c.schemas[name]
	return ok
}

// Lookup returns the schema for name.
func (c *Context) Lookup(name string) (Schema, bool) {
	s, ok := c.schemas[name]
	return s, ok
}

// Add commits a schema under name. Names are globally unique; a collision
// returns *DuplicateNameError and leaves the context unchanged.
func (c *Context) Add(name string, s Schema) error {
	if _, ok := c.schemas[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	c.schemas[name] = s
	return nil
}

// Clone returns an independent copy. Theorem checking works on a scratch
// clone holding hypothesis and lemma entries that must not outlive the
// command.
func (c *Context) Clone() *Context {
	out := NewContext()
	for name, s := range c.schemas {
		out.schemas[name] = s
	}
	return out
}

// Len returns the number of committed schemas.
func (c *Context) Len() int { return len(c.schemas) }

// Names returns all defined names, sorted.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
