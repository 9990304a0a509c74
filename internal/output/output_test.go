package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/markshift/pkg/migrate"
	"github.com/jmylchreest/markshift/pkg/part"
)

func sampleResult() *migrate.Result {
	stats := migrate.NewStats()
	stats.Replacements["bold"] = 1
	return &migrate.Result{
		Code:    `<strong>Hi</strong>`,
		Preview: `<mark class="markshift-change">&lt;strong&gt;Hi&lt;/strong&gt;</mark>`,
		Missing: []part.Definition{{Name: "quote", Pattern: `<q>{{q}}</q>`}},
		Stats:   stats,
	}
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatCode, "*output.CodeWriter"},
		{"", "*output.CodeWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatYAML, "*output.YAMLWriter"},
		{FormatPreview, "*output.PreviewWriter"},
		{FormatMarkdown, "*output.MarkdownWriter"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if got := fmt.Sprintf("%T", w); got != tt.want {
				t.Errorf("NewWriter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("unsupported"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

func TestCodeWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatCode)
	if err := w.Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.String() != "<strong>Hi</strong>\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestJSONWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSON, WithStats(true))
	if err := w.Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var doc struct {
		Code    string `json:"code"`
		Missing []struct {
			Name string `json:"name"`
		} `json:"missing"`
		Stats struct {
			Replacements map[string]int `json:"replacements"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Code != "<strong>Hi</strong>" {
		t.Errorf("code = %q", doc.Code)
	}
	if len(doc.Missing) != 1 || doc.Missing[0].Name != "quote" {
		t.Errorf("missing = %+v", doc.Missing)
	}
	if doc.Stats.Replacements["bold"] != 1 {
		t.Errorf("stats = %+v", doc.Stats)
	}
	if strings.Contains(buf.String(), `\u003c`) {
		t.Error("markup should not be HTML-escaped in JSON output")
	}
}

func TestJSONWriter_Compact(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSON, WithPretty(false))
	if err := w.Write(sampleResult()); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected single line, got %q", buf.String())
	}
	if strings.Contains(buf.String(), `"stats"`) {
		t.Error("stats should be omitted by default")
	}
}

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatYAML)
	if err := w.Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc["code"] != "<strong>Hi</strong>" {
		t.Errorf("code = %v", doc["code"])
	}
}

func TestPreviewWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatPreview, WithTitle("a <b> title"))
	if err := w.Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`<mark class="markshift-change">&lt;strong&gt;Hi&lt;/strong&gt;</mark>`,
		`<title>a &lt;b&gt; title</title>`,
		`<li><code>quote</code></li>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("preview page missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatMarkdown)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := buf.String(); got != "**Hi**\n" {
		t.Errorf("markdown = %q, want %q", got, "**Hi**\n")
	}
}
