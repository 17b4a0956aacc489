package validator

import (
	"maps"
	"slices"
)

// Tracker is the arena of scopes opened during one validation pass. Records are never
// removed; the whole arena is dropped when the pass ends.
type Tracker struct {
	records []record
}

type record struct {
	parent int
	names  map[string]struct{}
}

// Scope is a handle to one record of a Tracker. A child sees every name its parent
// had when the child was opened; names declared in the child stay in the child.
type Scope struct {
	t  *Tracker
	id int
}

// NewTracker returns an arena holding only an empty root scope.
func NewTracker() *Tracker {
	return &Tracker{records: []record{{parent: -1}}}
}

// Root returns the outermost scope.
func (t *Tracker) Root() Scope {
	return Scope{t: t, id: 0}
}

// size is the number of scopes opened so far, root included.
func (t *Tracker) size() int {
	return len(t.records)
}

// Child opens a new scope nested in s.
func (s Scope) Child() Scope {
	s.t.records = append(s.t.records, record{parent: s.id})
	return Scope{t: s.t, id: len(s.t.records) - 1}
}

// Declare adds name to s.
func (s Scope) Declare(name string) {
	r := &s.t.records[s.id]
	if r.names == nil {
		r.names = make(map[string]struct{})
	}
	r.names[name] = struct{}{}
}

// IsDeclared reports whether name is visible from s. Walking the parent chain is
// equivalent to checking a copy of the parent taken at entry, because the walk never
// returns to a parent while one of its children is still open.
func (s Scope) IsDeclared(name string) bool {
	for id := s.id; id >= 0; id = s.t.records[id].parent {
		if _, ok := s.t.records[id].names[name]; ok {
			return true
		}
	}
	return false
}

// visible lists every name visible from s, sorted.
func (s Scope) visible() []string {
	seen := make(map[string]struct{})
	for id := s.id; id >= 0; id = s.t.records[id].parent {
		maps.Copy(seen, s.t.records[id].names)
	}
	return slices.Sorted(maps.Keys(seen))
}
