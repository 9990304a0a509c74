// Package prune provides the structure normalizer used after migration: it
// parses a markup fragment permissively, removes elements left empty by
// substitution and serializes the tree again.
package prune

// DefaultKeepClass marks an element that must survive pruning even when
// empty.
const DefaultKeepClass = "markshift-keep"

// voidTags never have content and are never pruned.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// structuralTags are kept even when empty; an empty table cell still holds
// its column.
var structuralTags = map[string]bool{
	"td": true, "th": true, "textarea": true, "iframe": true,
	"script": true, "style": true, "canvas": true, "svg": true,
	"video": true, "audio": true, "object": true, "select": true,
	"option": true, "button": true,
}

// decorativeTags are pruned when empty only if they carry no attributes
// besides class. An attributed one is presumed intentional (an icon hook,
// a data binding).
var decorativeTags = map[string]bool{
	"span": true, "i": true, "b": true, "u": true, "s": true,
	"em": true, "strong": true, "small": true, "font": true,
	"sup": true, "sub": true, "label": true, "abbr": true,
}

// Config controls which empty elements survive.
type Config struct {
	// KeepClasses lists class names that exempt an element from pruning.
	KeepClasses []string `json:"keep_classes" yaml:"keep_classes" mapstructure:"keep_classes"`

	// KeepTags adds tag names to the always-kept structural set.
	KeepTags []string `json:"keep_tags" yaml:"keep_tags" mapstructure:"keep_tags"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		KeepClasses: []string{DefaultKeepClass},
	}
}
