package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/markshift/internal/output"
	"github.com/jmylchreest/markshift/pkg/migrate"
	"github.com/jmylchreest/markshift/pkg/part"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestReadDefinitionFile(t *testing.T) {
	path := writeTemp(t, "parts.md", "# bold\n## Pattern\n<b>{{t}}</b>\n# italic\n## Pattern\n<i>{{t}}</i>\n")

	defs, err := readDefinitionFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 2 || defs[0].Name != "bold" || defs[1].Pattern != "<i>{{t}}</i>" {
		t.Errorf("unexpected definitions: %+v", defs)
	}
}

func TestReadDefinitionFile_Empty(t *testing.T) {
	path := writeTemp(t, "empty.md", "just some notes\n")
	if _, err := readDefinitionFile(path); err == nil {
		t.Fatal("expected error for a document without parts")
	}
}

func TestResolveParts(t *testing.T) {
	doc := writeTemp(t, "parts.md", "# bold\n## Pattern\n<b>{{t}}</b>\n")

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().String("from", "", "")
		cmd.Flags().String("from-parts", "", "")
		return cmd
	}

	t.Run("document", func(t *testing.T) {
		cmd := newCmd()
		_ = cmd.Flags().Set("from-parts", doc)
		defs, err := resolveParts(cmd, "from", "from-parts")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(defs) != 1 || defs[0].Name != "bold" {
			t.Errorf("unexpected definitions: %+v", defs)
		}
	})

	t.Run("both set", func(t *testing.T) {
		cmd := newCmd()
		_ = cmd.Flags().Set("from", "bootstrap3")
		_ = cmd.Flags().Set("from-parts", doc)
		if _, err := resolveParts(cmd, "from", "from-parts"); err == nil {
			t.Fatal("expected mutually exclusive error")
		}
	})

	t.Run("neither set", func(t *testing.T) {
		if _, err := resolveParts(newCmd(), "from", "from-parts"); err == nil {
			t.Fatal("expected required error")
		}
	})
}

func TestMaxInputSize(t *testing.T) {
	tests := []struct {
		value   string
		want    uint64
		wantErr bool
	}{
		{value: "0", want: 0},
		{value: "", want: 0},
		{value: "1KB", want: 1000},
		{value: "2MiB", want: 2 << 20},
		{value: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.Flags().String("max-input-size", "", "")
			_ = cmd.Flags().Set("max-input-size", tt.value)

			got, err := maxInputSize(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("maxInputSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	defs := []part.Definition{{Name: "bold", Pattern: "<b>{{t}}</b>"}}

	var buf bytes.Buffer
	if err := encode(&buf, "json", defs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"pattern": "<b>{{t}}</b>"`) {
		t.Errorf("JSON should not escape markup: %s", buf.String())
	}

	buf.Reset()
	if err := encode(&buf, "yaml", defs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "name: bold") {
		t.Errorf("unexpected YAML: %s", buf.String())
	}

	if err := encode(&buf, "toml", defs); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDuplicateNames(t *testing.T) {
	defs := []part.Definition{
		{Name: "a"}, {Name: "b"}, {Name: "a"}, {Name: "a"}, {Name: "c"}, {Name: "b"},
	}
	got := duplicateNames(defs)
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("duplicateNames() = %v", got)
	}
}

func TestPlaceholderList(t *testing.T) {
	if got := placeholderList(nil); got != "-" {
		t.Errorf("placeholderList(nil) = %q", got)
	}
	if got := placeholderList([]string{"url", "label"}); got != "{{url}} {{label}}" {
		t.Errorf("placeholderList() = %q", got)
	}
}

func TestWriterOptions(t *testing.T) {
	res := &migrate.Result{Code: "<p>x</p>", Stats: migrate.NewStats()}

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().Bool("stats", false, "")
		cmd.Flags().String("indent", "  ", "")
		cmd.Flags().Bool("compact", false, "")
		return cmd
	}

	tests := []struct {
		name    string
		flags   map[string]string
		want    string
		exclude string
	}{
		{
			name: "default indent",
			want: "\n  \"code\"",
		},
		{
			name:  "custom indent",
			flags: map[string]string{"indent": "\t"},
			want:  "\n\t\"code\"",
		},
		{
			name:    "compact",
			flags:   map[string]string{"compact": "true"},
			want:    `{"code":"<p>x</p>"`,
			exclude: "\n  ",
		},
		{
			name:  "stats",
			flags: map[string]string{"stats": "true"},
			want:  `"stats"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newCmd()
			for k, v := range tt.flags {
				_ = cmd.Flags().Set(k, v)
			}

			var buf bytes.Buffer
			w, err := output.NewWriter(&buf, output.FormatJSON, writerOptions(cmd)...)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if err := w.Write(res); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, buf.String())
			}
			if tt.exclude != "" && strings.Contains(buf.String(), tt.exclude) {
				t.Errorf("output should not contain %q:\n%s", tt.exclude, buf.String())
			}
		})
	}
}
