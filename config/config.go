// Package config provides configuration for the vocabulary generator,
// including the built-in dataset profiles that bind source table names,
// URI patterns and scheme metadata.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one generation run.
type Config struct {
	Scheme      SchemeConfig       `yaml:"scheme"`
	Tables      TablesConfig       `yaml:"tables"`
	Collections []CollectionConfig `yaml:"collections"`

	// Lang is the language tag attached to every literal (e.g. "de").
	Lang string `yaml:"lang"`

	// LinkCategoryGroups links each concept's category code to the group
	// concept carrying that code as an additional broader relation. Set by
	// the occupations profile; not overridable from file config.
	LinkCategoryGroups bool `yaml:"-"`
}

// SchemeConfig describes the generated concept scheme.
type SchemeConfig struct {
	// Title is the dct:title of the scheme.
	Title string `yaml:"title"`

	// BaseURI is the @base of the generated document.
	BaseURI string `yaml:"base_uri"`

	// ExternalNamespace is the canonical source namespace. It is declared
	// under the esco: prefix and abbreviated in exactMatch references.
	ExternalNamespace string `yaml:"external_namespace"`

	// Created is the dct:created date (YYYY-MM-DD). Empty means the
	// current date; set it explicitly for byte-reproducible output.
	Created string `yaml:"created"`

	// LeafPattern validates canonical URIs. Its first capture group is the
	// URI's trailing segment; rows whose URI does not match are skipped
	// and counted.
	LeafPattern string `yaml:"leaf_pattern"`
}

// TablesConfig names the source tables as glob patterns relative to the
// data directory. Concepts is required; the rest are optional.
type TablesConfig struct {
	Concepts  string `yaml:"concepts"`
	Groups    string `yaml:"groups"`
	Relations string `yaml:"relations"`
}

// CollectionConfig binds a named subset tag to its membership table glob.
type CollectionConfig struct {
	Name string `yaml:"name"`
	Glob string `yaml:"glob"`
}

// SkillsProfile returns the configuration for ESCO skills datasets.
func SkillsProfile() *Config {
	return &Config{
		Scheme: SchemeConfig{
			Title:             "ESCO Skills",
			BaseURI:           "http://w3id.org/openeduhub/vocabs/escoSkills/",
			ExternalNamespace: "http://data.europa.eu/esco/skill/",
			LeafPattern:       `/(?:skill|isced-f)/([^/]+)$`,
		},
		Tables: TablesConfig{
			Concepts:  "skills_*.csv",
			Groups:    "skillGroups_*.csv",
			Relations: "broaderRelationsSkillPillar_*.csv",
		},
		Collections: []CollectionConfig{
			{Name: "transversal", Glob: "transversalSkillsCollection_*.csv"},
			{Name: "language", Glob: "languageSkillsCollection_*.csv"},
			{Name: "digital", Glob: "digitalSkillsCollection_*.csv"},
			{Name: "green", Glob: "greenSkillsCollection_*.csv"},
			{Name: "research", Glob: "researchSkillsCollection_*.csv"},
		},
		Lang: "de",
	}
}

// OccupationsProfile returns the configuration for ESCO occupations
// datasets. Occupations carry an ISCO group code, so category links are
// enabled to attach each occupation below its group.
func OccupationsProfile() *Config {
	return &Config{
		Scheme: SchemeConfig{
			Title:             "ESCO Occupations",
			BaseURI:           "http://w3id.org/openeduhub/vocabs/escoOccupations/",
			ExternalNamespace: "http://data.europa.eu/esco/",
			LeafPattern:       `/(?:occupation|isco)/([^/]+)$`,
		},
		Tables: TablesConfig{
			Concepts:  "occupations_*.csv",
			Groups:    "ISCOGroups_*.csv",
			Relations: "broaderRelationsOccPillar_*.csv",
		},
		Collections: []CollectionConfig{
			{Name: "research", Glob: "researchOccupationsCollection_*.csv"},
		},
		Lang:               "de",
		LinkCategoryGroups: true,
	}
}

// Profiles maps profile names to their constructors.
var Profiles = map[string]func() *Config{
	"skills":      SkillsProfile,
	"occupations": OccupationsProfile,
}

// ProfileByName returns a fresh config for the named dataset profile.
func ProfileByName(name string) (*Config, error) {
	ctor, ok := Profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (available: skills, occupations)", name)
	}
	return ctor(), nil
}

// LoadFromFile loads partial overrides from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// Merge merges another config into this one. Non-empty values in other
// take precedence; a non-empty collection list replaces the profile's.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Scheme.Title != "" {
		c.Scheme.Title = other.Scheme.Title
	}
	if other.Scheme.BaseURI != "" {
		c.Scheme.BaseURI = other.Scheme.BaseURI
	}
	if other.Scheme.ExternalNamespace != "" {
		c.Scheme.ExternalNamespace = other.Scheme.ExternalNamespace
	}
	if other.Scheme.Created != "" {
		c.Scheme.Created = other.Scheme.Created
	}
	if other.Scheme.LeafPattern != "" {
		c.Scheme.LeafPattern = other.Scheme.LeafPattern
	}

	if other.Tables.Concepts != "" {
		c.Tables.Concepts = other.Tables.Concepts
	}
	if other.Tables.Groups != "" {
		c.Tables.Groups = other.Tables.Groups
	}
	if other.Tables.Relations != "" {
		c.Tables.Relations = other.Tables.Relations
	}

	if len(other.Collections) > 0 {
		c.Collections = other.Collections
	}

	if other.Lang != "" {
		c.Lang = other.Lang
	}
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if c.Scheme.Title == "" {
		return fmt.Errorf("scheme.title is required")
	}
	if c.Scheme.BaseURI == "" {
		return fmt.Errorf("scheme.base_uri is required")
	}
	if c.Scheme.ExternalNamespace == "" {
		return fmt.Errorf("scheme.external_namespace is required")
	}
	if c.Scheme.LeafPattern == "" {
		return fmt.Errorf("scheme.leaf_pattern is required")
	}
	if _, err := regexp.Compile(c.Scheme.LeafPattern); err != nil {
		return fmt.Errorf("scheme.leaf_pattern: %w", err)
	}
	if c.Scheme.Created != "" {
		if _, err := time.Parse("2006-01-02", c.Scheme.Created); err != nil {
			return fmt.Errorf("scheme.created must be YYYY-MM-DD: %w", err)
		}
	}
	if c.Tables.Concepts == "" {
		return fmt.Errorf("tables.concepts is required")
	}
	if c.Lang == "" {
		return fmt.Errorf("lang is required")
	}
	for i, coll := range c.Collections {
		if coll.Name == "" || coll.Glob == "" {
			return fmt.Errorf("collections[%d]: name and glob are required", i)
		}
	}
	return nil
}

// CreatedDate returns the dct:created date for the scheme block.
func (c *Config) CreatedDate() string {
	if c.Scheme.Created != "" {
		return c.Scheme.Created
	}
	return time.Now().Format("2006-01-02")
}
