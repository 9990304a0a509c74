package output

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/jmylchreest/markshift/pkg/migrate"
)

// CodeWriter writes only the migrated markup.
type CodeWriter struct {
	w io.Writer
}

// Write writes res.Code, ending with a newline.
func (w *CodeWriter) Write(res *migrate.Result) error {
	code := res.Code
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	_, err := io.WriteString(w.w, code)
	return err
}

var previewPage = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
pre { white-space: pre-wrap; font-family: monospace; }
mark.markshift-change { background: #fff3a8; }
</style>
</head>
<body>
{{- if .Missing}}
<h2>Missing mappings</h2>
<ul>
{{- range .Missing}}
<li><code>{{.}}</code></li>
{{- end}}
</ul>
{{- end}}
<pre>{{.Preview}}</pre>
</body>
</html>
`))

// PreviewWriter writes the highlighted preview as a standalone HTML page.
type PreviewWriter struct {
	w     io.Writer
	title string
}

// Write renders the preview page. The preview text is already escaped by
// the migrator, so it is inserted as-is.
func (w *PreviewWriter) Write(res *migrate.Result) error {
	missing := make([]string, 0, len(res.Missing))
	for _, m := range res.Missing {
		missing = append(missing, m.Name)
	}

	return previewPage.Execute(w.w, struct {
		Title   string
		Preview template.HTML
		Missing []string
	}{
		Title:   w.title,
		Preview: template.HTML(res.Preview), //#nosec G203 -- escaped by migrate
		Missing: missing,
	})
}

// MarkdownWriter writes the migrated markup converted to Markdown, for
// targets that store content as text.
type MarkdownWriter struct {
	w io.Writer
}

// Write converts res.Code and writes it, ending with a newline.
func (w *MarkdownWriter) Write(res *migrate.Result) error {
	markdown, err := md.ConvertString(res.Code)
	if err != nil {
		return fmt.Errorf("convert to markdown: %w", err)
	}
	markdown = strings.TrimSpace(markdown) + "\n"
	_, err = io.WriteString(w.w, markdown)
	return err
}
