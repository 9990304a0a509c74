package pattern

import (
	"regexp"
	"strings"
)

// Span is one top-level occurrence of a container in a text.
type Span struct {
	// Start and End delimit the whole occurrence, End is just past the
	// closing tag's '>'.
	Start int
	End   int

	// ContentStart and ContentEnd delimit the captured content.
	ContentStart int
	ContentEnd   int

	Content string
}

// FindTopLevel locates the top-level occurrences of a container element.
// prefix matches the container head; tag is the element name whose
// open/close tags are depth-counted. Spans are returned earliest first and
// never overlap; same-tag elements nested inside a span are part of its
// content.
func FindTopLevel(text string, prefix *regexp.Regexp, tag string) []Span {
	spans, _ := FindTopLevelWithStats(text, prefix, tag)
	return spans
}

// FindTopLevelWithStats is FindTopLevel that also reports how many prefix
// occurrences were discarded because their closing tag never balanced.
func FindTopLevelWithStats(text string, prefix *regexp.Regexp, tag string) ([]Span, int) {
	tokens := tagTokenRegex(tag)

	var spans []Span
	unbalanced := 0
	pos := 0
	for pos <= len(text) {
		loc := prefix.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, headEnd := pos+loc[0], pos+loc[1]

		closeStart, closeEnd, ok := scanBalanced(text, headEnd, tokens)
		if !ok {
			unbalanced++
			// Resume after this prefix; a later occurrence may still balance.
			if headEnd == start {
				headEnd++
			}
			pos = headEnd
			continue
		}

		spans = append(spans, Span{
			Start:        start,
			End:          closeEnd,
			ContentStart: headEnd,
			ContentEnd:   closeStart,
			Content:      text[headEnd:closeStart],
		})
		pos = closeEnd
	}
	return spans, unbalanced
}

// scanBalanced walks open/close tokens from pos with depth starting at 1 and
// returns the bounds of the close tag that brings depth to zero.
func scanBalanced(text string, pos int, tokens *regexp.Regexp) (int, int, bool) {
	depth := 1
	for _, m := range tokens.FindAllStringSubmatchIndex(text[pos:], -1) {
		token := text[pos+m[0] : pos+m[1]]
		isClose := m[3] > m[2]
		switch {
		case isClose:
			depth--
		case strings.HasSuffix(token, "/>"):
			// self-closed, depth unchanged
		default:
			depth++
		}
		if depth == 0 {
			return pos + m[0], pos + m[1], true
		}
	}
	return 0, 0, false
}

// tagTokenRegex matches both "<tag ...>" and "</tag>" tokens for one tag
// name; group 1 is non-empty for closing tags. The name must end at
// whitespace, '/' or '>', so "<div-x>" is not a div.
func tagTokenRegex(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<(/?)\s*` + regexp.QuoteMeta(tag) + `(?:[\s/][^>]*)?>`)
}
