package normalize

// Noop leaves markup untouched. Useful when the caller wants the raw
// substituted text, delimiters and all, without a parse round trip.
type Noop struct{}

// NewNoop creates a pass-through normalizer.
func NewNoop() *Noop {
	return &Noop{}
}

// Normalize returns html unchanged.
func (n *Noop) Normalize(html string) (string, error) {
	return html, nil
}

// Name returns the normalizer type.
func (n *Noop) Name() string {
	return "noop"
}
