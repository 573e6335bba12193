// Package pipeline sequences the Load, Build and Serialize phases of a
// generation run. Data flows strictly forward: raw rows become registry
// entries, registry entries become hierarchy edges, and the frozen graph
// is rendered once at the end. The output file is only opened for writing
// after Build has completed, so a failed Load never leaves partial output.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/janschachtschabel/skohub-esco-vocab/concept"
	"github.com/janschachtschabel/skohub-esco-vocab/config"
	"github.com/janschachtschabel/skohub-esco-vocab/export"
	"github.com/janschachtschabel/skohub-esco-vocab/hierarchy"
	"github.com/janschachtschabel/skohub-esco-vocab/identifier"
)

// Pipeline runs one generation: source tables in dataDir, Turtle document
// at outPath.
type Pipeline struct {
	cfg     *config.Config
	dataDir string
	outPath string
	logger  *slog.Logger
}

// New creates a pipeline. A nil logger falls back to slog.Default.
func New(cfg *config.Config, dataDir, outPath string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:     cfg,
		dataDir: dataDir,
		outPath: outPath,
		logger:  logger,
	}
}

// categoryLink defers a concept-to-group edge until the group code index
// is complete.
type categoryLink struct {
	childID string
	code    string
}

// Run executes Load, Build and Serialize and returns the run summary.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	stats := Stats{CollectionSizes: make(map[string]int)}

	data, err := p.load(ctx)
	if err != nil {
		return stats, err
	}

	mapper, err := identifier.NewMapper(p.cfg.Scheme.LeafPattern)
	if err != nil {
		return stats, err
	}
	registry := concept.NewRegistry()
	builder := hierarchy.NewBuilder(p.logger)

	if err := p.merge(data, mapper, registry, builder, &stats); err != nil {
		return stats, err
	}

	stats.Edges = builder.EdgeCount()
	stats.TopLevel = len(builder.TopLevelConcepts())
	stats.DuplicateParents = builder.DuplicateParents()
	stats.OrphanRefs = registry.OrphanRefs()
	for _, coll := range p.cfg.Collections {
		stats.CollectionSizes[coll.Name] = registry.CollectionSize(coll.Name)
	}
	p.logger.Info("Hierarchy built",
		"concepts", registry.Len(),
		"edges", stats.Edges,
		"top_level", stats.TopLevel)

	serializer := export.NewSerializer(export.Options{
		BaseIRI:           p.cfg.Scheme.BaseURI,
		Title:             p.cfg.Scheme.Title,
		Created:           p.cfg.CreatedDate(),
		Lang:              p.cfg.Lang,
		ExternalNamespace: p.cfg.Scheme.ExternalNamespace,
	})
	doc := serializer.Render(registry, builder)
	stats.CycleWarnings = builder.CycleWarnings()

	if err := os.WriteFile(p.outPath, []byte(doc), 0644); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	p.logger.Info("Document written", "path", p.outPath, "bytes", len(doc))

	return stats, nil
}

// merge folds the parsed tables into the registry and hierarchy. It is
// the single writer: the parallel load phase only parses.
func (p *Pipeline) merge(
	data *tableData,
	mapper *identifier.Mapper,
	registry *concept.Registry,
	builder *hierarchy.Builder,
	stats *Stats,
) error {
	groupCodes := make(map[string]string) // group code -> local id
	var categoryLinks []categoryLink

	// Groups first so that group records win the merge for shared ids.
	for _, row := range data.groups {
		id, skip, err := p.mapRow(mapper, row.Get(colConceptURI), stats)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		code := row.Get(colCode)
		registry.Upsert(id, concept.Fields{
			ExternalRef: row.Get(colConceptURI),
			PrefLabel:   row.Get(colPrefLabel),
			AltLabels:   splitLabels(row[colAltLabels]),
			Description: row.Get(colDescription),
			Category:    code,
		})
		if code != "" {
			groupCodes[code] = id
		}
		stats.Groups++
	}

	for _, row := range data.concepts {
		id, skip, err := p.mapRow(mapper, row.Get(colConceptURI), stats)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		note := row.Get(colRegulatedNote)
		if strings.HasPrefix(note, unregulatedNotePrefix) {
			note = ""
		}
		category := row.Get(colCategory)
		registry.Upsert(id, concept.Fields{
			ExternalRef:  row.Get(colConceptURI),
			PrefLabel:    row.Get(colPrefLabel),
			AltLabels:    splitLabels(row[colAltLabels]),
			HiddenLabels: splitLabels(row[colHiddenLabels]),
			Description:  firstNonEmpty(row.Get(colDescription), row.Get(colDefinition)),
			ScopeNote:    row.Get(colScopeNote),
			Note:         note,
			Category:     category,
		})
		if p.cfg.LinkCategoryGroups && category != "" {
			categoryLinks = append(categoryLinks, categoryLink{childID: id, code: category})
		}
		stats.Concepts++
	}

	for _, coll := range data.collections {
		for _, row := range coll.rows {
			id, skip, err := p.mapRow(mapper, row.Get(colConceptURI), stats)
			if err != nil {
				return err
			}
			if skip {
				continue
			}
			if !registry.TagCollection(id, coll.name) {
				p.logger.Debug("collection entry references unknown concept",
					"collection", coll.name, "uri", row.Get(colConceptURI))
			}
		}
	}

	for _, row := range data.relations {
		childURI := row.Get(colConceptURI)
		parentURI := row.Get(colBroaderURI)
		if childURI == "" || parentURI == "" {
			stats.SkippedRows++
			continue
		}
		childID, skip, err := p.mapRow(mapper, childURI, stats)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		parentID, skip, err := p.mapRow(mapper, parentURI, stats)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		builder.AddEdge(childID, parentID)
	}

	// Category links attach each concept below the group carrying its
	// code. A parent already recorded from the relations table wins.
	for _, link := range categoryLinks {
		groupID, ok := groupCodes[link.code]
		if !ok || groupID == link.childID {
			continue
		}
		builder.AddEdge(link.childID, groupID)
	}

	return nil
}

// mapRow validates and maps one row's canonical URI. skip is true for
// rows that are counted and dropped (missing key field or unrecognized
// URI pattern); a non-nil error is an identifier collision and fatal.
func (p *Pipeline) mapRow(mapper *identifier.Mapper, uri string, stats *Stats) (id string, skip bool, err error) {
	if uri == "" {
		stats.SkippedRows++
		return "", true, nil
	}
	if _, ok := mapper.Leaf(uri); !ok {
		stats.SkippedRows++
		p.logger.Debug("skipping row with unrecognized canonical URI", "uri", uri)
		return "", true, nil
	}
	id, err = mapper.Map(uri)
	if err != nil {
		return "", false, err
	}
	return id, false, nil
}
