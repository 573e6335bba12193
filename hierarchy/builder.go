// Package hierarchy assembles broader/narrower adjacency from flat
// parent/child relation rows and computes transitive ancestor chains.
//
// Relation rows arrive from a different source table than the concept list
// itself and may be incomplete (dangling references) or, in malformed
// inputs, cyclic. The builder tolerates references to ids outside the
// loaded concept set and never loops indefinitely.
package hierarchy

import (
	"log/slog"
	"sort"
)

type node struct {
	broader  string
	narrower map[string]struct{}
}

// Builder records direct parent links and derives narrower sets, top-level
// concepts and transitive broader chains. Not safe for concurrent use.
type Builder struct {
	nodes  map[string]*node
	logger *slog.Logger

	edges            int
	duplicateParents int
	cycles           int
}

// NewBuilder creates an empty builder. A nil logger falls back to
// slog.Default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		nodes:  make(map[string]*node),
		logger: logger,
	}
}

func (b *Builder) node(id string) *node {
	n, ok := b.nodes[id]
	if !ok {
		n = &node{narrower: make(map[string]struct{})}
		b.nodes[id] = n
	}
	return n
}

// AddEdge records parent as the direct broader link of child and adds
// child to parent's narrower set, creating placeholder nodes for ids the
// registry has not seen. When the source data supplies more than one
// parent for a child, the first seen wins and the duplicate is counted.
func (b *Builder) AddEdge(child, parent string) {
	cn := b.node(child)
	if cn.broader != "" && cn.broader != parent {
		b.duplicateParents++
		b.logger.Warn("duplicate direct parent ignored",
			"child", child, "kept", cn.broader, "ignored", parent)
		return
	}
	if cn.broader == parent {
		return
	}
	cn.broader = parent
	b.node(parent).narrower[child] = struct{}{}
	b.edges++
}

// Broader returns the direct parent of id, if one is recorded.
func (b *Builder) Broader(id string) (string, bool) {
	n, ok := b.nodes[id]
	if !ok || n.broader == "" {
		return "", false
	}
	return n.broader, true
}

// Narrower returns the children of id sorted ascending.
func (b *Builder) Narrower(id string) []string {
	n, ok := b.nodes[id]
	if !ok || len(n.narrower) == 0 {
		return nil
	}
	children := make([]string, 0, len(n.narrower))
	for child := range n.narrower {
		children = append(children, child)
	}
	sort.Strings(children)
	return children
}

// TopLevelConcepts returns every id that appears as a parent or child but
// carries no recorded broader link, sorted ascending.
func (b *Builder) TopLevelConcepts() []string {
	var top []string
	for id, n := range b.nodes {
		if n.broader == "" {
			top = append(top, id)
		}
	}
	sort.Strings(top)
	return top
}

// TransitiveBroader walks broader links starting at id and returns the
// ancestor chain ordered nearest to farthest, excluding id itself. The
// walk stops when no further link exists or when the next ancestor was
// already visited; revisits are counted as cycle warnings.
func (b *Builder) TransitiveBroader(id string) []string {
	var chain []string
	seen := map[string]struct{}{id: {}}
	current := id
	for {
		n, ok := b.nodes[current]
		if !ok || n.broader == "" {
			return chain
		}
		if _, visited := seen[n.broader]; visited {
			b.cycles++
			b.logger.Warn("cyclic broader chain truncated",
				"start", id, "repeat", n.broader)
			return chain
		}
		seen[n.broader] = struct{}{}
		chain = append(chain, n.broader)
		current = n.broader
	}
}

// EdgeCount returns the number of recorded broader links.
func (b *Builder) EdgeCount() int {
	return b.edges
}

// DuplicateParents returns how many relation rows supplied a second direct
// parent for a child that already had one.
func (b *Builder) DuplicateParents() int {
	return b.duplicateParents
}

// CycleWarnings returns how many broader walks were truncated by the
// cycle guard.
func (b *Builder) CycleWarnings() int {
	return b.cycles
}
