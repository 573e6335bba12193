// Package skos defines the vocabulary constants used in generated Turtle
// documents: the SKOS core, Dublin Core terms and XML Schema namespaces
// plus the qualified predicate names the serializer emits.
package skos

const (
	// Namespace is the SKOS core namespace.
	Namespace = "http://www.w3.org/2004/02/skos/core#"

	// DCTermsNamespace is the Dublin Core terms namespace.
	DCTermsNamespace = "http://purl.org/dc/terms/"

	// XSDNamespace is the XML Schema datatypes namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// DefaultPrefixes returns the namespace prefixes declared in every
// generated document. Dataset-specific prefixes (the external source
// namespace) are added on top of these.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"skos": Namespace,
		"dct":  DCTermsNamespace,
		"xsd":  XSDNamespace,
	}
}
