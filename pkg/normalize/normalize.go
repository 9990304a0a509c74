// Package normalize defines the pluggable markup normalization step that runs
// once over migrated output.
//
// A Normalizer wraps a permissive parser/serializer: it parses whatever
// markup it is given, applies its tree rules and serializes the result. It
// must be stateless between calls.
package normalize

// Normalizer parses, tidies and re-serializes a markup fragment.
type Normalizer interface {
	// Normalize returns the normalized form of the fragment.
	Normalize(html string) (string, error)

	// Name returns the normalizer type for logging.
	Name() string
}
