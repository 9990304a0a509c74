package migrate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmylchreest/markshift/pkg/part"
)

// Result is the outcome of one migration.
type Result struct {
	// Code is the migrated markup, ready to use.
	Code string `json:"code" yaml:"code"`

	// Preview is Code as inert escaped text with substituted regions
	// wrapped in highlight markers.
	Preview string `json:"preview" yaml:"preview"`

	// Missing lists source parts found in the input that have no
	// same-named target part.
	Missing []part.Definition `json:"missing" yaml:"missing"`

	Stats *Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// HasMissing reports whether any source part lacked a target mapping.
func (r *Result) HasMissing() bool {
	return len(r.Missing) > 0
}

// Stats captures what a migration did.
type Stats struct {
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// Replacements counts substitutions per part name.
	Replacements map[string]int `json:"replacements" yaml:"replacements"`

	// Unbalanced counts container occurrences whose closing tag never
	// balanced and were left untouched.
	Unbalanced int `json:"unbalanced,omitempty" yaml:"unbalanced,omitempty"`

	Normalizer string `json:"normalizer" yaml:"normalizer"`

	SubstituteDuration time.Duration `json:"substitute_duration" yaml:"substitute_duration"`
	NormalizeDuration  time.Duration `json:"normalize_duration" yaml:"normalize_duration"`
	TotalDuration      time.Duration `json:"total_duration" yaml:"total_duration"`
}

// NewStats creates a Stats with initialized maps.
func NewStats() *Stats {
	return &Stats{
		Replacements: make(map[string]int),
	}
}

// TotalReplacements returns the number of substitutions across all parts.
func (s *Stats) TotalReplacements() int {
	total := 0
	for _, n := range s.Replacements {
		total += n
	}
	return total
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %d -> %d bytes\n", s.InputBytes, s.OutputBytes))
	sb.WriteString(fmt.Sprintf("Replacements: %d\n", s.TotalReplacements()))

	if len(s.Replacements) > 0 {
		names := make([]string, 0, len(s.Replacements))
		for name := range s.Replacements {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", name, s.Replacements[name]))
		}
	}

	if s.Unbalanced > 0 {
		sb.WriteString(fmt.Sprintf("Unbalanced containers skipped: %d\n", s.Unbalanced))
	}

	sb.WriteString(fmt.Sprintf("Timing: substitute=%v, normalize=%v, total=%v\n",
		s.SubstituteDuration.Round(time.Microsecond),
		s.NormalizeDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}
