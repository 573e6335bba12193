// Package identifier maps canonical source URIs to stable local
// identifiers. The mapping is a deterministic name-based hash, so the same
// URI yields the same identifier across runs and across processes.
package identifier

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// namespace is the fixed UUID namespace for name-based identifier
// derivation. Changing it changes every generated identifier, so it is
// part of the output contract.
var namespace = uuid.MustParse("12345678-1234-5678-1234-123456789abc")

// Mapper derives local identifiers from canonical source URIs and
// validates that the mapping stays bijective. It is not safe for
// concurrent use; the pipeline maps URIs from a single writer.
type Mapper struct {
	leafPattern *regexp.Regexp
	seen        map[string]string // local id -> external URI
}

// NewMapper creates a mapper. leafPattern is the regular expression a
// canonical URI must match to be accepted; its first capture group is the
// URI's trailing segment.
func NewMapper(leafPattern string) (*Mapper, error) {
	re, err := regexp.Compile(leafPattern)
	if err != nil {
		return nil, fmt.Errorf("compile leaf pattern: %w", err)
	}
	return &Mapper{
		leafPattern: re,
		seen:        make(map[string]string),
	}, nil
}

// Map returns the local identifier for externalURI. A collision between
// two distinct URIs is a data-integrity error and aborts the run.
func (m *Mapper) Map(externalURI string) (string, error) {
	id := uuid.NewSHA1(namespace, []byte(externalURI)).String()
	if prev, ok := m.seen[id]; ok && prev != externalURI {
		return "", fmt.Errorf("identifier collision: %q and %q both map to %s", prev, externalURI, id)
	}
	m.seen[id] = externalURI
	return id, nil
}

// Leaf extracts the trailing segment of a canonical URI. The second return
// value reports whether the URI matches the configured pattern; rows with
// non-matching URIs are skipped and counted by the pipeline.
func (m *Mapper) Leaf(uri string) (string, bool) {
	match := m.leafPattern.FindStringSubmatch(uri)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}
