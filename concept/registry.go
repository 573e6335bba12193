package concept

import "sort"

// Registry stores one record per concept id with explicit merge rules:
// a populated field is never overwritten by an empty one, label lists are
// appended to rather than replaced, and collection tags only accumulate.
// Side effects are confined to the registry's own storage.
type Registry struct {
	concepts map[string]*Concept
	orphans  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		concepts: make(map[string]*Concept),
	}
}

// Upsert creates the record for id if absent, otherwise merges the
// non-empty fields into the existing record. It returns the stored record.
func (r *Registry) Upsert(id string, f Fields) *Concept {
	c, ok := r.concepts[id]
	if !ok {
		c = &Concept{ID: id}
		r.concepts[id] = c
	}

	if c.ExternalRef == "" {
		c.ExternalRef = f.ExternalRef
	}
	if c.PrefLabel == "" {
		c.PrefLabel = f.PrefLabel
	}
	if c.Description == "" {
		c.Description = f.Description
	}
	if c.ScopeNote == "" {
		c.ScopeNote = f.ScopeNote
	}
	if c.Note == "" {
		c.Note = f.Note
	}
	if c.Category == "" {
		c.Category = f.Category
	}
	c.AltLabels = appendUnique(c.AltLabels, f.AltLabels)
	c.HiddenLabels = appendUnique(c.HiddenLabels, f.HiddenLabels)

	return c
}

// TagCollection adds name to the concept's collection set if and only if
// the id is already known. An unknown id is counted as an orphan reference
// and does not create a record.
func (r *Registry) TagCollection(id, name string) bool {
	c, ok := r.concepts[id]
	if !ok {
		r.orphans++
		return false
	}
	c.addCollection(name)
	return true
}

// Get returns the concept for id.
func (r *Registry) Get(id string) (*Concept, bool) {
	c, ok := r.concepts[id]
	return c, ok
}

// IDs returns all concept ids sorted ascending. Serialization uses this
// order so repeated runs reproduce identical output.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.concepts))
	for id := range r.concepts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of stored concepts.
func (r *Registry) Len() int {
	return len(r.concepts)
}

// OrphanRefs returns the number of collection references to unknown ids.
func (r *Registry) OrphanRefs() int {
	return r.orphans
}

// CollectionSize returns how many concepts carry the named collection tag.
func (r *Registry) CollectionSize(name string) int {
	n := 0
	for _, c := range r.concepts {
		if c.InCollection(name) {
			n++
		}
	}
	return n
}

// appendUnique appends the values not already present in dst, preserving
// the original order of both slices.
func appendUnique(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range src {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
