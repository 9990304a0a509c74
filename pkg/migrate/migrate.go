// Package migrate rewrites markup written in one site's part vocabulary into
// another's.
//
// Each source part is matched against the input and replaced by the
// same-named target part, rendered with the captured placeholder values.
// Parts are tried longest pattern first so that outer structures are
// rewritten before the smaller fragments inside them. The substituted text
// is normalized once at the end.
//
// Example:
//
//	res, err := migrate.New().Migrate(
//	    `<b>Hi</b>`,
//	    []part.Definition{{Name: "bold", Pattern: `<b>{{t}}</b>`}},
//	    []part.Definition{{Name: "bold", Pattern: `<strong>{{t}}</strong>`}},
//	)
//	// res.Code == `<strong>Hi</strong>`
package migrate

import (
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmylchreest/markshift/pkg/normalize"
	"github.com/jmylchreest/markshift/pkg/part"
	"github.com/jmylchreest/markshift/pkg/pattern"
)

// Migrator runs migrations. It holds configuration only and may be reused
// across calls.
type Migrator struct {
	normalizer     normalize.Normalizer
	logger         *slog.Logger
	highlightStart string
	highlightEnd   string
}

// New creates a Migrator.
func New(opts ...Option) *Migrator {
	m := defaultMigrator()
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Migrate runs a migration with default options.
func Migrate(source string, sourceParts, targetParts []part.Definition) (*Result, error) {
	return New().Migrate(source, sourceParts, targetParts)
}

// compiledPart is a source part ready to be applied.
type compiledPart struct {
	def      part.Definition
	compiled *pattern.Compiled
}

// replacement is one pending splice into the working text.
type replacement struct {
	start, end int
	text       string
}

// Migrate rewrites source from the sourceParts vocabulary into the
// targetParts vocabulary.
//
// A source part without a same-named target part is reported in
// Result.Missing when its pattern occurs in the text, and the text is left
// alone. Any source pattern that cannot be compiled fails the whole call.
func (m *Migrator) Migrate(source string, sourceParts, targetParts []part.Definition) (*Result, error) {
	startTime := time.Now()
	stats := NewStats()
	stats.InputBytes = len(source)
	stats.Normalizer = m.normalizer.Name()

	targets := make(map[string]string, len(targetParts))
	for _, t := range targetParts {
		if _, ok := targets[t.Name]; !ok {
			targets[t.Name] = t.Pattern
		}
	}

	parts, err := compileParts(sourceParts)
	if err != nil {
		return nil, err
	}

	text := source
	var missing []part.Definition
	for _, p := range parts {
		target, ok := targets[p.def.Name]
		if !ok {
			if p.compiled.Matcher.MatchString(text) {
				m.logger.Debug("part has no target mapping", "part", p.def.Name)
				missing = append(missing, p.def)
			}
			continue
		}

		var reps []replacement
		if c, isContainer := pattern.AnalyzeContainer(p.def.Pattern); isContainer {
			reps, err = m.containerReplacements(text, c, target, stats)
			if err != nil {
				return nil, fmt.Errorf("part %q: %w", p.def.Name, err)
			}
		} else {
			reps = m.matchReplacements(text, p.compiled, target)
		}

		if len(reps) == 0 {
			continue
		}
		text = splice(text, reps)
		stats.Replacements[p.def.Name] += len(reps)
		m.logger.Debug("part applied", "part", p.def.Name, "replacements", len(reps))
	}
	text = dropTagDelimiters(text)
	stats.SubstituteDuration = time.Since(startTime)

	normalizeStart := time.Now()
	normalized, err := m.normalizer.Normalize(text)
	stats.NormalizeDuration = time.Since(normalizeStart)
	if err != nil {
		return nil, fmt.Errorf("normalize with %s: %w", m.normalizer.Name(), err)
	}

	result := &Result{
		Code:    codeOutput(normalized),
		Preview: m.previewOutput(normalized),
		Missing: missing,
		Stats:   stats,
	}
	stats.OutputBytes = len(result.Code)
	stats.TotalDuration = time.Since(startTime)
	return result, nil
}

// compileParts compiles every source pattern and orders the parts longest
// pattern first. Equal lengths keep their input order.
func compileParts(defs []part.Definition) ([]compiledPart, error) {
	parts := make([]compiledPart, 0, len(defs))
	for _, d := range defs {
		c, err := pattern.Compile(d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", d.Name, err)
		}
		parts = append(parts, compiledPart{def: d, compiled: c})
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return utf8.RuneCountInString(parts[i].def.Pattern) > utf8.RuneCountInString(parts[j].def.Pattern)
	})
	return parts, nil
}

// containerReplacements renders the target for every top-level occurrence
// of a container pattern.
func (m *Migrator) containerReplacements(text string, c *pattern.Container, target string, stats *Stats) ([]replacement, error) {
	head, err := c.CompileHead()
	if err != nil {
		return nil, err
	}

	spans, unbalanced := pattern.FindTopLevelWithStats(text, head, c.Tag)
	if unbalanced > 0 {
		stats.Unbalanced += unbalanced
		m.logger.Debug("unbalanced container occurrences left untouched",
			"tag", c.Tag, "count", unbalanced)
	}

	reps := make([]replacement, 0, len(spans))
	for _, s := range spans {
		rendered := pattern.Render(target, map[string]string{c.Placeholder: s.Content})
		reps = append(reps, replacement{start: s.Start, end: s.End, text: wrapChange(rendered)})
	}
	return reps, nil
}

// matchReplacements renders the target for every match of a plain pattern.
// Matches of one pattern never overlap.
func (m *Migrator) matchReplacements(text string, c *pattern.Compiled, target string) []replacement {
	locs := c.Matcher.FindAllStringSubmatchIndex(text, -1)
	reps := make([]replacement, 0, len(locs))
	for _, loc := range locs {
		rendered := pattern.Render(target, c.Bindings(text, loc))
		reps = append(reps, replacement{start: loc[0], end: loc[1], text: wrapChange(rendered)})
	}
	return reps
}

// splice applies non-overlapping replacements from the highest offset down
// so that offsets not yet applied stay valid.
func splice(text string, reps []replacement) string {
	sort.SliceStable(reps, func(i, j int) bool {
		return reps[i].start > reps[j].start
	})
	for _, r := range reps {
		text = text[:r.start] + r.text + text[r.end:]
	}
	return text
}

func wrapChange(s string) string {
	return ChangeStart + s + ChangeEnd
}

// dropTagDelimiters removes change delimiters that landed inside a start or
// end tag, where a comment would corrupt the tag. Such substitutions are
// kept but not highlighted.
func dropTagDelimiters(text string) string {
	if !strings.Contains(text, ChangeStart) && !strings.Contains(text, ChangeEnd) {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	inTag := false
	var quote byte
	for i := 0; i < len(text); {
		rest := text[i:]

		if inTag {
			if strings.HasPrefix(rest, ChangeStart) {
				i += len(ChangeStart)
				continue
			}
			if strings.HasPrefix(rest, ChangeEnd) {
				i += len(ChangeEnd)
				continue
			}
			c := text[i]
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '"' || c == '\'':
				quote = c
			case c == '>':
				inTag = false
			}
			sb.WriteByte(c)
			i++
			continue
		}

		if strings.HasPrefix(rest, "<!--") {
			n := len(rest)
			if end := strings.Index(rest[4:], "-->"); end >= 0 {
				n = 4 + end + 3
			}
			sb.WriteString(rest[:n])
			i += n
			continue
		}
		if text[i] == '<' && i+1 < len(text) && isTagNameStart(text[i+1]) {
			inTag = true
		}
		sb.WriteByte(text[i])
		i++
	}
	return sb.String()
}

func isTagNameStart(c byte) bool {
	return c == '/' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// escapedDelimiters undoes escaping the normalizer may have applied to
// delimiters that landed in a text context.
var escapedDelimiters = strings.NewReplacer(
	html.EscapeString(html.EscapeString(ChangeStart)), ChangeStart,
	html.EscapeString(html.EscapeString(ChangeEnd)), ChangeEnd,
	html.EscapeString(ChangeStart), ChangeStart,
	html.EscapeString(ChangeEnd), ChangeEnd,
)

var stripDelimiters = strings.NewReplacer(ChangeStart, "", ChangeEnd, "")

// codeOutput removes all change delimiters.
func codeOutput(normalized string) string {
	return stripDelimiters.Replace(escapedDelimiters.Replace(normalized))
}

// previewOutput escapes everything and turns the delimiters into highlight
// markers, so the preview displays markup as text.
func (m *Migrator) previewOutput(normalized string) string {
	escaped := html.EscapeString(escapedDelimiters.Replace(normalized))
	return strings.NewReplacer(
		html.EscapeString(ChangeStart), m.highlightStart,
		html.EscapeString(ChangeEnd), m.highlightEnd,
	).Replace(escaped)
}
