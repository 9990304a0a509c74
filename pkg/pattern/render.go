package pattern

import (
	"regexp"
	"strings"
)

var (
	// anchorRegex matches an anchor element with its attributes and content.
	anchorRegex = regexp.MustCompile(`(?is)<a(\s[^>]*)?>(.*?)</a\s*>`)

	// attrRegex matches one attribute: group 1 is the key, group 2 the
	// optional value, quoted or not.
	attrRegex = regexp.MustCompile(`([^\s=/>"']+)(?:\s*=\s*("[^"]*"|'[^']*'|[^\s>"']*))?`)
)

// Render substitutes bindings into a target template. Unbound placeholders
// render as the empty string. Bound values are inserted verbatim and never
// re-scanned for placeholders.
//
// Anchors whose href ends up empty are replaced by their inner content so a
// missing URL does not leave a dead link. This is a text-level rule and is
// not guaranteed on malformed markup.
func Render(template string, bindings map[string]string) string {
	out := placeholderRegex.ReplaceAllStringFunc(template, func(token string) string {
		name := placeholderRegex.FindStringSubmatch(token)[1]
		return bindings[name]
	})
	return unwrapEmptyLinks(out)
}

// unwrapEmptyLinks replaces <a href="">x</a> (or a bare href) with x.
func unwrapEmptyLinks(s string) string {
	return anchorRegex.ReplaceAllStringFunc(s, func(anchor string) string {
		m := anchorRegex.FindStringSubmatch(anchor)
		if !hasEmptyHref(m[1]) {
			return anchor
		}
		return m[2]
	})
}

// hasEmptyHref reports whether the first href in an attribute list has an
// empty value, including a bare href and a trailing href=.
func hasEmptyHref(attrs string) bool {
	for _, m := range attrRegex.FindAllStringSubmatch(attrs, -1) {
		if !strings.EqualFold(m[1], "href") {
			continue
		}
		value := strings.Trim(m[2], `"'`)
		return strings.TrimSpace(value) == ""
	}
	return false
}
