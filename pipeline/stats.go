package pipeline

// Stats summarizes one generation run. It is returned by value to the
// reporting layer rather than accumulated as ambient state.
type Stats struct {
	// Concepts and Groups count the rows loaded from the concept and
	// group tables.
	Concepts int
	Groups   int

	// Edges counts the recorded broader links.
	Edges int

	// TopLevel counts concepts without a recorded parent.
	TopLevel int

	// OrphanRefs counts collection rows referencing unknown concepts.
	OrphanRefs int

	// SkippedRows counts rows missing their key field or carrying a
	// canonical URI that does not match the configured pattern.
	SkippedRows int

	// DuplicateParents counts relation rows that supplied a second direct
	// parent for a child.
	DuplicateParents int

	// CycleWarnings counts broader walks truncated by the cycle guard.
	CycleWarnings int

	// CollectionSizes holds the membership count per collection name.
	// Collections whose table was absent report zero.
	CollectionSizes map[string]int
}
