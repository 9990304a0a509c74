package migrate

import (
	"io"
	"log/slog"

	"github.com/jmylchreest/markshift/pkg/normalize"
	"github.com/jmylchreest/markshift/pkg/normalize/prune"
)

const (
	// ChangeStart and ChangeEnd wrap every substituted fragment in the
	// working text. They are comments so the normalizer keeps them in place
	// without treating them as content.
	ChangeStart = "<!--markshift:change-->"
	ChangeEnd   = "<!--/markshift:change-->"

	// DefaultHighlightStart and DefaultHighlightEnd replace the change
	// delimiters in the preview.
	DefaultHighlightStart = `<mark class="markshift-change">`
	DefaultHighlightEnd   = `</mark>`
)

// Option configures a Migrator.
type Option func(*Migrator)

// WithNormalizer sets the normalizer run once over the substituted text.
// The default is prune.New(nil).
func WithNormalizer(n normalize.Normalizer) Option {
	return func(m *Migrator) {
		if n != nil {
			m.normalizer = n
		}
	}
}

// WithLogger sets the logger for debug tracing. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Migrator) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithHighlight sets the markers that replace change delimiters in the
// preview.
func WithHighlight(start, end string) Option {
	return func(m *Migrator) {
		m.highlightStart = start
		m.highlightEnd = end
	}
}

func defaultMigrator() *Migrator {
	return &Migrator{
		normalizer:     prune.New(nil),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		highlightStart: DefaultHighlightStart,
		highlightEnd:   DefaultHighlightEnd,
	}
}
