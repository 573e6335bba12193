package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/janschachtschabel/skohub-esco-vocab/tabular"
)

// Source table column names (ESCO CSV schema).
const (
	colConceptURI    = "conceptUri"
	colBroaderURI    = "broaderUri"
	colPrefLabel     = "preferredLabel"
	colAltLabels     = "altLabels"
	colHiddenLabels  = "hiddenLabels"
	colDescription   = "description"
	colDefinition    = "definition"
	colScopeNote     = "scopeNote"
	colRegulatedNote = "regulatedProfessionNote"
	colCode          = "code"
	colCategory      = "iscoGroup"
)

// unregulatedNotePrefix marks the placeholder regulation reference that is
// dropped rather than emitted as a note.
const unregulatedNotePrefix = "http://data.europa.eu/esco/regulated-professions/unregulated"

// collectionRows holds one collection table's parsed rows.
type collectionRows struct {
	name string
	path string
	rows []tabular.Row
}

// tableData holds the parsed rows of every source table. Tables are read
// concurrently; all registry and hierarchy writes happen afterwards in a
// single merge pass.
type tableData struct {
	concepts    []tabular.Row
	groups      []tabular.Row
	relations   []tabular.Row
	collections []collectionRows
}

// load resolves and parses all source tables. The concepts table is
// required; a missing groups, relations or collection table is logged and
// treated as empty.
func (p *Pipeline) load(ctx context.Context) (*tableData, error) {
	conceptsPath, err := p.findTable(p.cfg.Tables.Concepts)
	if err != nil {
		return nil, err
	}
	if conceptsPath == "" {
		return nil, fmt.Errorf("required concepts table %q not found in %s", p.cfg.Tables.Concepts, p.dataDir)
	}

	groupsPath, err := p.findTable(p.cfg.Tables.Groups)
	if err != nil {
		return nil, err
	}
	relationsPath, err := p.findTable(p.cfg.Tables.Relations)
	if err != nil {
		return nil, err
	}

	data := &tableData{}
	for _, coll := range p.cfg.Collections {
		path, err := p.findTable(coll.Glob)
		if err != nil {
			return nil, err
		}
		if path == "" {
			p.logger.Warn("collection table not found, recording zero membership",
				"collection", coll.Name, "glob", coll.Glob)
			continue
		}
		data.collections = append(data.collections, collectionRows{name: coll.Name, path: path})
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := tabular.ReadFile(conceptsPath)
		if err != nil {
			return err
		}
		data.concepts = rows
		return nil
	})
	if groupsPath != "" {
		g.Go(func() error {
			rows, err := tabular.ReadFile(groupsPath)
			if err != nil {
				return err
			}
			data.groups = rows
			return nil
		})
	} else if p.cfg.Tables.Groups != "" {
		p.logger.Warn("groups table not found", "glob", p.cfg.Tables.Groups)
	}
	if relationsPath != "" {
		g.Go(func() error {
			rows, err := tabular.ReadFile(relationsPath)
			if err != nil {
				return err
			}
			data.relations = rows
			return nil
		})
	} else if p.cfg.Tables.Relations != "" {
		p.logger.Warn("relations table not found", "glob", p.cfg.Tables.Relations)
	}
	for i := range data.collections {
		entry := &data.collections[i]
		g.Go(func() error {
			rows, err := tabular.ReadFile(entry.path)
			if err != nil {
				return err
			}
			entry.rows = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load source tables: %w", err)
	}

	p.logger.Info("Source tables loaded",
		"concepts", len(data.concepts),
		"groups", len(data.groups),
		"relations", len(data.relations),
		"collection_tables", len(data.collections))
	return data, nil
}

// findTable resolves a table glob against the data directory. An empty
// glob or a glob with no match resolves to the empty path; with multiple
// matches the lexically first wins.
func (p *Pipeline) findTable(glob string) (string, error) {
	if glob == "" {
		return "", nil
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(p.dataDir, glob))
	if err != nil {
		return "", fmt.Errorf("resolve table glob %q: %w", glob, err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[0], nil
}

// splitLabels splits a multi-value label field. Skills tables separate
// labels with pipes, occupations tables with newlines; both are handled.
func splitLabels(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	var labels []string
	for _, part := range strings.FieldsFunc(field, func(r rune) bool {
		return r == '\n' || r == '|'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

// firstNonEmpty returns the first non-blank candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
