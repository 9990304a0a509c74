package prune

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stats captures what a normalization pass did.
type Stats struct {
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	ElementsRemoved map[string]int `json:"elements_removed" yaml:"elements_removed"` // tag -> count
	ElementsKept    int            `json:"elements_kept" yaml:"elements_kept"`

	ParseDuration time.Duration `json:"parse_duration" yaml:"parse_duration"`
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`
}

// NewStats creates a Stats with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved: make(map[string]int),
	}
}

// RecordRemoval records that an element was pruned.
func (s *Stats) RecordRemoval(tag string) {
	s.ElementsRemoved[strings.ToLower(tag)]++
}

// TotalElementsRemoved returns the number of pruned elements.
func (s *Stats) TotalElementsRemoved() int {
	total := 0
	for _, count := range s.ElementsRemoved {
		total += count
	}
	return total
}

// String returns a one-line summary.
func (s *Stats) String() string {
	tags := make([]string, 0, len(s.ElementsRemoved))
	for tag, count := range s.ElementsRemoved {
		tags = append(tags, fmt.Sprintf("%s=%d", tag, count))
	}
	sort.Strings(tags)

	summary := fmt.Sprintf("pruned %d, kept %d", s.TotalElementsRemoved(), s.ElementsKept)
	if len(tags) > 0 {
		summary += " (" + strings.Join(tags, ", ") + ")"
	}
	return summary
}

// Warning is a non-fatal issue met while normalizing.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`
	Message string `json:"message" yaml:"message"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result is the output of NormalizeWithStats.
type Result struct {
	// Content is the normalized markup, or the input on failure.
	Content string `json:"content"`

	Stats    *Stats    `json:"stats"`
	Warnings []Warning `json:"warnings,omitempty"`

	// Error is set when the input could not be parsed or serialized.
	Error error `json:"-"`
}

// AddWarning appends a warning.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings reports whether any warning was recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
