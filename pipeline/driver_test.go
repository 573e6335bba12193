package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janschachtschabel/skohub-esco-vocab/config"
	"github.com/janschachtschabel/skohub-esco-vocab/identifier"
)

var quiet = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func skillsConfig() *config.Config {
	cfg := config.SkillsProfile()
	cfg.Scheme.Created = "2024-01-01"
	return cfg
}

// localID mirrors the pipeline's URI-to-identifier mapping for output
// assertions.
func localID(t *testing.T, cfg *config.Config, uri string) string {
	t.Helper()
	m, err := identifier.NewMapper(cfg.Scheme.LeafPattern)
	require.NoError(t, err)
	id, err := m.Map(uri)
	require.NoError(t, err)
	return id
}

func TestRunSkills(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"skills_de.csv": "conceptUri,preferredLabel,altLabels,description,scopeNote\n" +
			"http://data.europa.eu/esco/skill/s1,Datenbanken verwalten,DB-Verwaltung|DBA,Verwaltung von Datenbanken,nur relational\n" +
			"http://data.europa.eu/esco/skill/s2,SQL schreiben,,,\n",
		"skillGroups_de.csv": "conceptUri,preferredLabel,code\n" +
			"http://data.europa.eu/esco/skill/g1,IKT,S1\n",
		"broaderRelationsSkillPillar_de.csv": "conceptUri,broaderUri\n" +
			"http://data.europa.eu/esco/skill/s1,http://data.europa.eu/esco/skill/g1\n" +
			"http://data.europa.eu/esco/skill/s2,http://data.europa.eu/esco/skill/s1\n",
		"digitalSkillsCollection_de.csv": "conceptUri\n" +
			"http://data.europa.eu/esco/skill/s1\n" +
			"http://data.europa.eu/esco/skill/missing\n",
	})
	outPath := filepath.Join(t.TempDir(), "skills.ttl")
	cfg := skillsConfig()

	stats, err := New(cfg, dir, outPath, quiet).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Concepts)
	assert.Equal(t, 1, stats.Groups)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, 1, stats.TopLevel)
	assert.Equal(t, 1, stats.OrphanRefs, "membership row for an unknown concept is counted")
	assert.Equal(t, 0, stats.SkippedRows)
	assert.Equal(t, 1, stats.CollectionSizes["digital"])
	assert.Equal(t, 0, stats.CollectionSizes["green"])

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	output := string(data)

	groupID := localID(t, cfg, "http://data.europa.eu/esco/skill/g1")
	skillID := localID(t, cfg, "http://data.europa.eu/esco/skill/s1")
	assert.Contains(t, output, "<"+groupID+"> a skos:Concept ;")
	assert.Contains(t, output, `skos:prefLabel "Datenbanken verwalten"@de ;`)
	assert.Contains(t, output, `skos:altLabel "DB-Verwaltung"@de ;`)
	assert.Contains(t, output, "skos:broader <"+groupID+"> ;")
	assert.Contains(t, output, "skos:exactMatch esco:s1 ;")
	assert.Contains(t, output, "# Collections: digital")
	assert.Contains(t, output, "skos:hasTopConcept <"+groupID+"> .")
	assert.Contains(t, output, "<"+skillID+"> a skos:Concept ;")
}

func TestRunDeterministic(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"skills_de.csv": "conceptUri,preferredLabel\n" +
			"http://data.europa.eu/esco/skill/s1,Alpha\n" +
			"http://data.europa.eu/esco/skill/s2,Beta\n",
	})
	out1 := filepath.Join(t.TempDir(), "a.ttl")
	out2 := filepath.Join(t.TempDir(), "b.ttl")

	_, err := New(skillsConfig(), dir, out1, quiet).Run(context.Background())
	require.NoError(t, err)
	_, err = New(skillsConfig(), dir, out2, quiet).Run(context.Background())
	require.NoError(t, err)

	first, err := os.ReadFile(out1)
	require.NoError(t, err)
	second, err := os.ReadFile(out2)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "identical input yields byte-identical output")
}

func TestRunMissingConceptsTable(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "out.ttl")

	_, err := New(skillsConfig(), dir, outPath, quiet).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concepts table")

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr), "a failed run must not leave partial output")
}

func TestRunOptionalTablesAbsent(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"skills_de.csv": "conceptUri,preferredLabel\n" +
			"http://data.europa.eu/esco/skill/s1,Alpha\n",
	})
	outPath := filepath.Join(t.TempDir(), "out.ttl")

	stats, err := New(skillsConfig(), dir, outPath, quiet).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Concepts)
	assert.Equal(t, 0, stats.Edges)
	assert.Equal(t, 0, stats.Groups)
}

func TestRunSkipsUnrecognizedURIs(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"skills_de.csv": "conceptUri,preferredLabel\n" +
			"http://data.europa.eu/esco/skill/s1,Alpha\n" +
			"http://data.europa.eu/esco/occupation/o1,Wrong pillar\n" +
			",No URI\n",
	})
	outPath := filepath.Join(t.TempDir(), "out.ttl")

	stats, err := New(skillsConfig(), dir, outPath, quiet).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Concepts)
	assert.Equal(t, 2, stats.SkippedRows)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Wrong pillar")
}

func TestRunDropsUnregulatedNote(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"skills_de.csv": "conceptUri,preferredLabel,regulatedProfessionNote\n" +
			"http://data.europa.eu/esco/skill/s1,Alpha,http://data.europa.eu/esco/regulated-professions/unregulated\n" +
			"http://data.europa.eu/esco/skill/s2,Beta,gesetzlich geregelt\n",
	})
	outPath := filepath.Join(t.TempDir(), "out.ttl")

	_, err := New(skillsConfig(), dir, outPath, quiet).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	output := string(data)
	assert.NotContains(t, output, "unregulated", "placeholder regulation note is dropped")
	assert.Contains(t, output, `skos:note "gesetzlich geregelt"@de ;`)
}

func TestRunOccupationsCategoryLinks(t *testing.T) {
	cfg := config.OccupationsProfile()
	cfg.Scheme.Created = "2024-01-01"
	dir := writeFiles(t, map[string]string{
		"occupations_de.csv": "conceptUri,preferredLabel,iscoGroup\n" +
			"http://data.europa.eu/esco/occupation/o1,Datenbankadministrator/in,2521\n",
		"ISCOGroups_de.csv": "conceptUri,preferredLabel,code\n" +
			"http://data.europa.eu/esco/isco/C2521,Datenbankentwickler und -administratoren,2521\n",
	})
	outPath := filepath.Join(t.TempDir(), "out.ttl")

	stats, err := New(cfg, dir, outPath, quiet).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Concepts)
	assert.Equal(t, 1, stats.Groups)
	assert.Equal(t, 1, stats.Edges, "category code links the occupation below its group")
	assert.Equal(t, 1, stats.TopLevel)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	groupID := localID(t, cfg, "http://data.europa.eu/esco/isco/C2521")
	assert.Contains(t, string(data), "skos:broader <"+groupID+"> ;")
	assert.Contains(t, string(data), "# Group: 2521")
}

func TestSplitLabels(t *testing.T) {
	assert.Nil(t, splitLabels(""))
	assert.Nil(t, splitLabels("   "))
	assert.Equal(t, []string{"a", "b"}, splitLabels("a|b"))
	assert.Equal(t, []string{"a", "b"}, splitLabels("a\nb"))
	assert.Equal(t, []string{"a", "b", "c"}, splitLabels(" a |\nb\n| c "))
	assert.Equal(t, []string{"a"}, splitLabels("a||\n"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "b", firstNonEmpty("  ", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestRunRelationRowsMissingEndpoints(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"skills_de.csv": "conceptUri,preferredLabel\n" +
			"http://data.europa.eu/esco/skill/s1,Alpha\n",
		"broaderRelationsSkillPillar_de.csv": "conceptUri,broaderUri\n" +
			"http://data.europa.eu/esco/skill/s1,\n" +
			",http://data.europa.eu/esco/skill/s1\n",
	})
	outPath := filepath.Join(t.TempDir(), "out.ttl")

	stats, err := New(skillsConfig(), dir, outPath, quiet).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Edges)
	assert.Equal(t, 2, stats.SkippedRows)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "skos:broader "), "no edges survive")
}
