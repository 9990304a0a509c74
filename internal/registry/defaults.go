package registry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/markshift/pkg/part"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns the built-in sites shipped with markshift.
func Defaults() ([]part.Site, error) {
	var f registryFile
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return nil, fmt.Errorf("parse built-in sites: %w", err)
	}
	return f.Sites, nil
}
