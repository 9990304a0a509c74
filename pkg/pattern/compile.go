// Package pattern compiles part templates into tolerant matchers and renders
// target templates from captured bindings.
//
// A template is markup with placeholders written as {{name}}. Static text is
// matched loosely: whitespace runs may shrink or grow, either quote character
// is accepted, and a '>' also accepts a self-closing "/>".
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrEmptyPattern is returned when a template is blank.
	ErrEmptyPattern = errors.New("pattern is empty")
	// ErrNoStaticText is returned when a template has placeholders but no
	// static text, which would match the empty string everywhere.
	ErrNoStaticText = errors.New("pattern has no static text")
)

// placeholderRegex matches a {{name}} token.
var placeholderRegex = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Compiled is a template turned into a matcher.
type Compiled struct {
	// Pattern is the source template.
	Pattern string

	// Matcher is case-insensitive and matches across line breaks.
	Matcher *regexp.Regexp

	// Placeholders lists distinct names in order of first appearance.
	Placeholders []string

	// groups holds the placeholder name behind each capture group.
	groups []string
}

// Compile turns a template into a tolerant matcher.
func Compile(pattern string) (*Compiled, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, ErrEmptyPattern
	}

	var sb strings.Builder
	sb.WriteString("(?is)")

	c := &Compiled{Pattern: pattern}
	seen := make(map[string]bool)
	hasStatic := false

	last := 0
	for _, loc := range placeholderRegex.FindAllStringSubmatchIndex(pattern, -1) {
		static := pattern[last:loc[0]]
		if strings.TrimSpace(static) != "" {
			hasStatic = true
		}
		sb.WriteString(staticExpr(static))
		sb.WriteString("(.*?)")

		name := pattern[loc[2]:loc[3]]
		c.groups = append(c.groups, name)
		if !seen[name] {
			seen[name] = true
			c.Placeholders = append(c.Placeholders, name)
		}
		last = loc[1]
	}
	tail := pattern[last:]
	if strings.TrimSpace(tail) != "" {
		hasStatic = true
	}
	sb.WriteString(staticExpr(tail))

	if !hasStatic {
		return nil, ErrNoStaticText
	}

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("compile matcher: %w", err)
	}
	c.Matcher = re
	return c, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Compiled {
	c, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("pattern: Compile(%q): %v", pattern, err))
	}
	return c
}

// Bindings maps placeholder names to the captures of one match.
// loc is a submatch index slice as returned by FindAllStringSubmatchIndex.
// A placeholder that appears more than once keeps its first capture.
func (c *Compiled) Bindings(text string, loc []int) map[string]string {
	bindings := make(map[string]string, len(c.Placeholders))
	for i, name := range c.groups {
		if _, ok := bindings[name]; ok {
			continue
		}
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		if start < 0 {
			bindings[name] = ""
			continue
		}
		bindings[name] = text[start:end]
	}
	return bindings
}

// staticExpr converts a literal template fragment into a tolerant
// regular expression fragment.
func staticExpr(s string) string {
	var sb strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteString(`\s*`)
				inSpace = true
			}
			continue
		}
		inSpace = false

		switch r {
		case '"', '\'':
			sb.WriteString(`["']`)
		case '>':
			sb.WriteString(`\s*/?>`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return sb.String()
}

// Placeholders returns the distinct placeholder names of a template in
// order of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRegex.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
