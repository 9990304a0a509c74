package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/markshift/pkg/migrate"
)

// document is the structured form of a result.
type document struct {
	Code    string         `json:"code" yaml:"code"`
	Preview string         `json:"preview" yaml:"preview"`
	Missing []missingPart  `json:"missing" yaml:"missing"`
	Stats   *migrate.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

type missingPart struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

func toDocument(res *migrate.Result, withStats bool) document {
	doc := document{
		Code:    res.Code,
		Preview: res.Preview,
		Missing: make([]missingPart, 0, len(res.Missing)),
	}
	for _, m := range res.Missing {
		doc.Missing = append(doc.Missing, missingPart{Name: m.Name, Pattern: m.Pattern})
	}
	if withStats {
		doc.Stats = res.Stats
	}
	return doc
}

// JSONWriter writes a result as a JSON object.
type JSONWriter struct {
	w   io.Writer
	cfg *writerConfig
}

// Write encodes res as JSON followed by a newline.
func (w *JSONWriter) Write(res *migrate.Result) error {
	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	if w.cfg.pretty {
		enc.SetIndent("", w.cfg.indent)
	}
	return enc.Encode(toDocument(res, w.cfg.withStats))
}

// YAMLWriter writes a result as a YAML document.
type YAMLWriter struct {
	w   io.Writer
	cfg *writerConfig
}

// Write encodes res as YAML.
func (w *YAMLWriter) Write(res *migrate.Result) error {
	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(res, w.cfg.withStats)); err != nil {
		return err
	}
	return enc.Close()
}
