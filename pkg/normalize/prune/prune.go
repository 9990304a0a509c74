package prune

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Pruner removes empty elements from a markup fragment.
// It implements the normalize.Normalizer interface.
type Pruner struct {
	config      *Config
	keepClasses []string
	keepTags    map[string]bool
}

// New creates a Pruner. If config is nil, DefaultConfig() is used.
func New(config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	keepTags := make(map[string]bool, len(structuralTags)+len(config.KeepTags))
	for tag := range structuralTags {
		keepTags[tag] = true
	}
	for _, tag := range config.KeepTags {
		keepTags[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	var keepClasses []string
	for _, class := range config.KeepClasses {
		if class = strings.TrimSpace(class); class != "" {
			keepClasses = append(keepClasses, class)
		}
	}

	return &Pruner{
		config:      config,
		keepClasses: keepClasses,
		keepTags:    keepTags,
	}
}

// Name returns the normalizer name for logging.
func (p *Pruner) Name() string {
	return "prune"
}

// Normalize parses html, prunes empty elements and serializes the result.
func (p *Pruner) Normalize(input string) (string, error) {
	result := p.NormalizeWithStats(input)
	if result.Error != nil {
		return "", result.Error
	}
	return result.Content, nil
}

// NormalizeWithStats is Normalize with detailed stats. On failure the input
// is returned as Content and Error is set.
func (p *Pruner) NormalizeWithStats(input string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(input)

	parseStart := time.Now()
	root, err := parseFragment(input)
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		result.Content = input
		result.Error = fmt.Errorf("parse fragment: %w", err)
		result.AddWarning("parse", "fragment parse failed, returning original", err.Error())
		result.Stats.OutputBytes = len(input)
		result.Stats.TotalDuration = time.Since(startTime)
		return result
	}

	doc := goquery.NewDocumentFromNode(root)
	p.pruneChildren(doc, root, result)

	output, err := doc.Html()
	if err != nil {
		result.Content = input
		result.Error = fmt.Errorf("render fragment: %w", err)
		result.AddWarning("output", "render failed, returning original", err.Error())
		result.Stats.OutputBytes = len(input)
	} else {
		result.Content = output
		result.Stats.OutputBytes = len(output)
	}

	result.Stats.TotalDuration = time.Since(startTime)
	return result
}

// parseFragment parses input in a <body> context and hangs the resulting
// nodes under a detached root element.
func parseFragment(input string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(input), context)
	if err != nil {
		return nil, err
	}

	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// pruneChildren visits the element children of n post-order, so that a
// parent emptied by pruning its children is itself pruned in the same pass.
func (p *Pruner) pruneChildren(doc *goquery.Document, n *html.Node, result *Result) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			p.pruneChildren(doc, c, result)
			if p.removable(doc.FindNodes(c), c) {
				result.Stats.RecordRemoval(c.Data)
				n.RemoveChild(c)
			} else {
				result.Stats.ElementsKept++
			}
		}
		c = next
	}
}

// removable reports whether an element is empty and unprotected.
// Comments never count as content.
func (p *Pruner) removable(s *goquery.Selection, n *html.Node) bool {
	tag := strings.ToLower(n.Data)

	if voidTags[tag] || p.keepTags[tag] {
		return false
	}
	for _, class := range p.keepClasses {
		if s.HasClass(class) {
			return false
		}
	}
	if decorativeTags[tag] && hasNonClassAttr(n) {
		return false
	}

	if s.Children().Length() > 0 {
		return false
	}
	return strings.TrimSpace(s.Text()) == ""
}

// hasNonClassAttr reports whether n has any attribute other than class.
func hasNonClassAttr(n *html.Node) bool {
	for _, attr := range n.Attr {
		if !strings.EqualFold(attr.Key, "class") {
			return true
		}
	}
	return false
}
