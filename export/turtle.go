// Package export renders the concept registry and hierarchy as a SKOS
// Turtle document with deterministic ordering.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/janschachtschabel/skohub-esco-vocab/concept"
	"github.com/janschachtschabel/skohub-esco-vocab/hierarchy"
	"github.com/janschachtschabel/skohub-esco-vocab/vocabulary/skos"
)

// Options configure a Serializer.
type Options struct {
	// BaseIRI becomes the @base directive; concept references resolve
	// against it.
	BaseIRI string

	// Title and Created describe the concept scheme.
	Title   string
	Created string

	// Lang is the language tag attached to every literal.
	Lang string

	// ExternalNamespace is declared under the esco: prefix and
	// abbreviated in exactMatch references.
	ExternalNamespace string
}

// Serializer renders a frozen registry and hierarchy. Concept blocks are
// emitted in ascending id order, never in map iteration or load order, so
// repeated runs over identical input produce byte-identical output.
type Serializer struct {
	opts     Options
	prefixes map[string]string
}

// NewSerializer creates a serializer with the default vocabulary prefixes
// plus the dataset's external namespace.
func NewSerializer(opts Options) *Serializer {
	prefixes := skos.DefaultPrefixes()
	prefixes["esco"] = opts.ExternalNamespace
	return &Serializer{
		opts:     opts,
		prefixes: prefixes,
	}
}

// Render serializes the registry and hierarchy into one Turtle document.
func (s *Serializer) Render(reg *concept.Registry, h *hierarchy.Builder) string {
	var sb strings.Builder

	topLevel := h.TopLevelConcepts()
	topSet := make(map[string]struct{}, len(topLevel))
	for _, id := range topLevel {
		topSet[id] = struct{}{}
	}

	s.writeHeader(&sb)
	s.writeScheme(&sb, topLevel)
	for _, id := range reg.IDs() {
		c, _ := reg.Get(id)
		s.writeConcept(&sb, c, h, topSet)
	}

	return sb.String()
}

// writeHeader writes the base directive and sorted prefix declarations.
func (s *Serializer) writeHeader(sb *strings.Builder) {
	fmt.Fprintf(sb, "@base <%s> .\n", s.opts.BaseIRI)

	keys := make([]string, 0, len(s.prefixes))
	for k := range s.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		fmt.Fprintf(sb, "@prefix %s: <%s> .\n", prefix, s.prefixes[prefix])
	}
	sb.WriteString("\n")
}

// writeScheme writes the concept scheme block with its top concept
// references.
func (s *Serializer) writeScheme(sb *strings.Builder, topLevel []string) {
	fmt.Fprintf(sb, "<> a %s ;\n", skos.TypeConceptScheme)
	fmt.Fprintf(sb, "    %s %s ;\n", skos.Title, s.literal(s.opts.Title))

	created := fmt.Sprintf("    %s \"%s\"^^xsd:date", skos.Created, s.opts.Created)
	if len(topLevel) == 0 {
		sb.WriteString(created + " .\n\n")
		return
	}
	sb.WriteString(created + " ;\n")
	fmt.Fprintf(sb, "    %s %s .\n\n", skos.HasTopConcept, s.refList(topLevel))
}

// writeConcept writes one concept block. Every predicate line ends with a
// semicolon except the final scheme-membership statement, which closes
// the block with a period.
func (s *Serializer) writeConcept(sb *strings.Builder, c *concept.Concept, h *hierarchy.Builder, topSet map[string]struct{}) {
	var stmts []string

	if c.PrefLabel != "" {
		stmts = append(stmts, skos.PrefLabel+" "+s.literal(c.PrefLabel))
	}
	for _, label := range c.AltLabels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		stmts = append(stmts, skos.AltLabel+" "+s.literal(label))
	}
	for _, label := range c.HiddenLabels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		stmts = append(stmts, skos.HiddenLabel+" "+s.literal(label))
	}
	if strings.TrimSpace(c.Description) != "" {
		stmts = append(stmts, skos.Definition+" "+s.literal(c.Description))
	}
	if strings.TrimSpace(c.ScopeNote) != "" {
		stmts = append(stmts, skos.ScopeNote+" "+s.literal(c.ScopeNote))
	}
	if strings.TrimSpace(c.Note) != "" {
		stmts = append(stmts, skos.Note+" "+s.literal(c.Note))
	}
	if c.ExternalRef != "" {
		stmts = append(stmts, skos.ExactMatch+" "+s.externalRef(c.ExternalRef))
	}
	if narrower := h.Narrower(c.ID); len(narrower) > 0 {
		stmts = append(stmts, skos.Narrower+" "+s.refList(narrower))
	}
	if broader, ok := h.Broader(c.ID); ok {
		stmts = append(stmts, skos.Broader+" "+ref(broader))
		if chain := h.TransitiveBroader(c.ID); len(chain) > 0 {
			stmts = append(stmts, skos.BroaderTransitive+" "+s.refList(chain))
		}
	}

	// Collection memberships and the grouping code are annotations only;
	// they must never become statements that affect graph structure.
	var comments []string
	if names := c.CollectionNames(); len(names) > 0 {
		comments = append(comments, "# Collections: "+strings.Join(names, ", "))
	}
	if c.Category != "" {
		comments = append(comments, "# Group: "+c.Category)
	}

	membership := skos.InScheme
	if _, ok := topSet[c.ID]; ok {
		membership = skos.TopConceptOf
	}

	fmt.Fprintf(sb, "<%s> a %s ;\n", c.ID, skos.TypeConcept)
	for _, stmt := range stmts {
		fmt.Fprintf(sb, "    %s ;\n", stmt)
	}
	for _, comment := range comments {
		fmt.Fprintf(sb, "    %s\n", comment)
	}
	fmt.Fprintf(sb, "    %s <> .\n\n", membership)
}

// literal renders a trimmed, escaped, language-tagged string literal.
func (s *Serializer) literal(v string) string {
	return `"` + Escape(strings.TrimSpace(v)) + `"@` + s.opts.Lang
}

// externalRef abbreviates a canonical URI with the esco: prefix when it
// lives directly under the external namespace.
func (s *Serializer) externalRef(uri string) string {
	if rest, ok := strings.CutPrefix(uri, s.opts.ExternalNamespace); ok &&
		rest != "" && !strings.Contains(rest, "/") {
		return "esco:" + rest
	}
	return "<" + uri + ">"
}

// refList renders ids as a comma-separated reference list, one per
// continuation line.
func (s *Serializer) refList(ids []string) string {
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = ref(id)
	}
	return strings.Join(refs, ",\n        ")
}

func ref(id string) string {
	return "<" + id + ">"
}
