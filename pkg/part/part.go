// Package part defines part rules, the sites that own them and the parser
// for part definition documents.
package part

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Definition is a named markup pattern. Name is the key that joins a source
// site's part to its target site equivalent.
type Definition struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Pattern string `json:"pattern" yaml:"pattern" validate:"required"`
}

// Site is a named collection of parts describing one markup vocabulary.
type Site struct {
	ID    string       `json:"id" yaml:"id" validate:"required"`
	Name  string       `json:"name" yaml:"name"`
	Parts []Definition `json:"parts" yaml:"parts" validate:"dive"`
}

// ErrInvalid is wrapped by validation failures.
var ErrInvalid = errors.New("invalid definition")

var validate = validator.New()

// Validate checks that the site has an ID and every part has a name and a
// pattern.
func (s Site) Validate() error {
	return validateStruct(s)
}

// Validate checks that the part has a name and a pattern.
func (d Definition) Validate() error {
	return validateStruct(d)
}

// Find returns the first part with the given name.
func (s Site) Find(name string) (Definition, bool) {
	for _, d := range s.Parts {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// formatFieldError creates a human-readable error message.
func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Site.")
	switch e.Tag() {
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed validation '%s'", field, e.Tag())
	}
}
