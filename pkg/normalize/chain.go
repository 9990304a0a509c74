package normalize

import (
	"strings"
)

// Chain applies several normalizers in order.
type Chain struct {
	normalizers []Normalizer
}

// NewChain creates a normalizer that runs each of normalizers in turn,
// feeding the output of one into the next.
//
// Example:
//
//	n := normalize.NewChain(
//	    prune.New(nil),
//	    myAttributeRewriter,
//	)
func NewChain(normalizers ...Normalizer) *Chain {
	return &Chain{
		normalizers: normalizers,
	}
}

// Normalize runs every normalizer, stopping at the first error.
func (c *Chain) Normalize(html string) (string, error) {
	var err error
	for _, n := range c.normalizers {
		html, err = n.Normalize(html)
		if err != nil {
			return "", err
		}
	}
	return html, nil
}

// Name returns the names of the chained normalizers.
func (c *Chain) Name() string {
	names := make([]string, len(c.normalizers))
	for i, n := range c.normalizers {
		names[i] = n.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
