package part

import (
	"bufio"
	"io"
	"strings"
)

const (
	partHeading    = "# "
	patternHeading = "## Pattern"
)

// Parse reads a part definition document:
//
//	# Part Name
//	## Pattern
//	<div class="card">{{content}}</div>
//
// A level-1 heading starts a part. A line that is or begins with
// "## Pattern" starts the pattern body; every line after it, blank ones
// included, belongs to the body until the next level-1 heading. Parts with
// an empty name or an empty trimmed pattern are dropped without notice, so
// callers should treat an empty result as an invalid document.
//
// A pattern body cannot contain a line starting with "# ".
func Parse(document string) []Definition {
	p := &parser{}
	for _, line := range strings.Split(document, "\n") {
		p.line(strings.TrimSuffix(line, "\r"))
	}
	return p.finish()
}

// ParseReader is Parse over an io.Reader. It only fails on read errors.
func ParseReader(r io.Reader) ([]Definition, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	p := &parser{}
	for scanner.Scan() {
		p.line(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

type parser struct {
	parts     []Definition
	name      string
	body      []string
	inPattern bool
}

func (p *parser) line(line string) {
	if strings.HasPrefix(line, partHeading) {
		p.flush()
		p.name = strings.TrimSpace(strings.TrimPrefix(line, partHeading))
		return
	}

	if p.inPattern {
		p.body = append(p.body, line)
		return
	}

	if strings.HasPrefix(line, patternHeading) {
		p.inPattern = true
	}
}

// flush finalizes the current part and resets the collection state.
func (p *parser) flush() {
	pattern := strings.TrimSpace(strings.Join(p.body, "\n"))
	if p.name != "" && pattern != "" {
		p.parts = append(p.parts, Definition{Name: p.name, Pattern: pattern})
	}
	p.name = ""
	p.body = nil
	p.inPattern = false
}

func (p *parser) finish() []Definition {
	p.flush()
	return p.parts
}
