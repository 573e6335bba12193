package skos

// Type terms.
const (
	TypeConcept       = "skos:Concept"
	TypeConceptScheme = "skos:ConceptScheme"
)

// Predicates emitted per concept block, in document order.
const (
	PrefLabel         = "skos:prefLabel"
	AltLabel          = "skos:altLabel"
	HiddenLabel       = "skos:hiddenLabel"
	Definition        = "skos:definition"
	ScopeNote         = "skos:scopeNote"
	Note              = "skos:note"
	ExactMatch        = "skos:exactMatch"
	Narrower          = "skos:narrower"
	Broader           = "skos:broader"
	BroaderTransitive = "skos:broaderTransitive"
	InScheme          = "skos:inScheme"
	TopConceptOf      = "skos:topConceptOf"
	HasTopConcept     = "skos:hasTopConcept"
)

// Scheme metadata predicates.
const (
	Title   = "dct:title"
	Created = "dct:created"
)
