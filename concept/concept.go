// Package concept holds the taxonomy concept records accumulated from the
// source tables, deduplicated by local identifier.
package concept

import "sort"

// Concept is one node in the taxonomy: an occupation, a skill or a group.
type Concept struct {
	// ID is the stable local identifier, unique and immutable once assigned.
	ID string

	// ExternalRef is the canonical source URI this concept corresponds to.
	ExternalRef string

	// PrefLabel is the preferred localized label.
	PrefLabel string

	// AltLabels and HiddenLabels preserve source order with duplicates removed.
	AltLabels    []string
	HiddenLabels []string

	// Description, ScopeNote and Note are optional annotations. When several
	// source fields feed one of them, the first non-empty candidate wins.
	Description string
	ScopeNote   string
	Note        string

	// Category is an optional classification code (e.g. an ISCO group code)
	// used for grouping and statistics only, never for identity.
	Category string

	// collections is the set of named subset tags the concept belongs to.
	// Membership is monotonic within a run.
	collections map[string]struct{}
}

// Fields carries the values merged into a concept by Registry.Upsert.
type Fields struct {
	ExternalRef  string
	PrefLabel    string
	AltLabels    []string
	HiddenLabels []string
	Description  string
	ScopeNote    string
	Note         string
	Category     string
}

// InCollection reports whether the concept belongs to the named collection.
func (c *Concept) InCollection(name string) bool {
	_, ok := c.collections[name]
	return ok
}

// CollectionNames returns the concept's collection tags sorted ascending.
func (c *Concept) CollectionNames() []string {
	if len(c.collections) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.collections))
	for name := range c.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Concept) addCollection(name string) {
	if c.collections == nil {
		c.collections = make(map[string]struct{})
	}
	c.collections[name] = struct{}{}
}
