// Package registry stores sites and their part definitions in a YAML or
// JSON file.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/markshift/pkg/part"
)

// ErrSiteNotFound is returned when a requested site is not in the registry.
var ErrSiteNotFound = errors.New("site not found")

// Registry is an ordered collection of sites backed by a file.
type Registry struct {
	path  string
	sites []part.Site
}

// registryFile is the on-disk structure.
type registryFile struct {
	Sites []part.Site `json:"sites" yaml:"sites"`
}

// Load reads a registry file. A missing file yields an empty registry that
// will be created on Save.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}

	data, err := os.ReadFile(path) //#nosec G304
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var f registryFile
	if isJSON(path) {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	for i, s := range f.Sites {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("registry %s: site %d: %w", path, i, err)
		}
	}
	r.sites = f.Sites
	return r, nil
}

// Path returns the file backing the registry.
func (r *Registry) Path() string {
	return r.path
}

// List returns all sites in registry order.
func (r *Registry) List() []part.Site {
	out := make([]part.Site, len(r.sites))
	copy(out, r.sites)
	return out
}

// Site returns the site with the given ID, or failing that the first site
// whose name matches case-insensitively.
func (r *Registry) Site(key string) (part.Site, error) {
	for _, s := range r.sites {
		if s.ID == key {
			return s, nil
		}
	}
	for _, s := range r.sites {
		if strings.EqualFold(s.Name, key) {
			return s, nil
		}
	}
	return part.Site{}, fmt.Errorf("%w: %s", ErrSiteNotFound, key)
}

// Upsert validates s and replaces the site with the same ID, or appends it.
func (r *Registry) Upsert(s part.Site) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for i := range r.sites {
		if r.sites[i].ID == s.ID {
			r.sites[i] = s
			return nil
		}
	}
	r.sites = append(r.sites, s)
	return nil
}

// Remove deletes the site with the given ID.
func (r *Registry) Remove(id string) error {
	for i := range r.sites {
		if r.sites[i].ID == id {
			r.sites = append(r.sites[:i], r.sites[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSiteNotFound, id)
}

// MergeDefaults adds default sites that are absent and, for sites that
// exist, default parts whose names are absent. User definitions always win.
// It returns the number of sites and parts added.
func (r *Registry) MergeDefaults(defaults []part.Site) (sites, parts int) {
	for _, d := range defaults {
		idx := -1
		for i := range r.sites {
			if r.sites[i].ID == d.ID {
				idx = i
				break
			}
		}

		if idx < 0 {
			site := d
			site.Parts = append([]part.Definition(nil), d.Parts...)
			r.sites = append(r.sites, site)
			sites++
			continue
		}

		for _, p := range d.Parts {
			if _, ok := r.sites[idx].Find(p.Name); !ok {
				r.sites[idx].Parts = append(r.sites[idx].Parts, p)
				parts++
			}
		}
	}
	return sites, parts
}

// Save writes the registry to its file atomically, creating parent
// directories as needed.
func (r *Registry) Save() error {
	f := registryFile{Sites: r.sites}
	if f.Sites == nil {
		f.Sites = []part.Site{}
	}

	var data []byte
	var err error
	if isJSON(r.path) {
		data, err = json.MarshalIndent(f, "", "  ")
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".registry-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close registry: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}

// DefaultPath returns the default registry location.
// Respects MARKSHIFT_REGISTRY, otherwise uses ~/.config/markshift/sites.yaml.
func DefaultPath() string {
	if p := os.Getenv("MARKSHIFT_REGISTRY"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "sites.yaml")
	}
	return filepath.Join(dir, "markshift", "sites.yaml")
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
