package pattern

import (
	"fmt"
	"regexp"
)

// headRegex matches the opening of a container head: optional whitespace,
// '<' and a tag name.
var headRegex = regexp.MustCompile(`^\s*<(\w+)`)

// Container describes a single-placeholder template whose static text is an
// opening tag followed by its matching closing tag, e.g.
// <div class="note">{{body}}</div>.
type Container struct {
	// Tag is the element name as written in the template.
	Tag string

	// Head is the template text before the placeholder.
	Head string

	// Placeholder is the name the captured content binds to.
	Placeholder string
}

// AnalyzeContainer reports whether a template is a container pattern.
func AnalyzeContainer(template string) (*Container, bool) {
	locs := placeholderRegex.FindAllStringSubmatchIndex(template, -1)
	if len(locs) != 1 {
		return nil, false
	}
	loc := locs[0]
	head, tail := template[:loc[0]], template[loc[1]:]

	m := headRegex.FindStringSubmatch(head)
	if m == nil {
		return nil, false
	}
	tag := m[1]

	closeRegex, err := regexp.Compile(`(?i)^\s*</\s*` + regexp.QuoteMeta(tag) + `\s*>\s*$`)
	if err != nil || !closeRegex.MatchString(tail) {
		return nil, false
	}

	return &Container{
		Tag:         tag,
		Head:        head,
		Placeholder: template[loc[2]:loc[3]],
	}, true
}

// CompileHead compiles the container head into a prefix matcher using the
// same tolerance rules as Compile.
func (c *Container) CompileHead() (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?is)" + staticExpr(c.Head))
	if err != nil {
		return nil, fmt.Errorf("compile container head: %w", err)
	}
	return re, nil
}
