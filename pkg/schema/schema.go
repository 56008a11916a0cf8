// Package schema holds the wire representation of a Workable application
// form: the field and question nodes returned by
// GET /jobs/{shortcode}/application_form/.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind enumerates the field/question types the application form API emits.
// Fields and questions share the same taxonomy but arrive in different parts
// of the document.
type Kind string

const (
	KindString         Kind = "string"
	KindFreeText       Kind = "free_text"
	KindFile           Kind = "file"
	KindBoolean        Kind = "boolean"
	KindDate           Kind = "date"
	KindComplex        Kind = "complex"
	KindMultipleChoice Kind = "multiple_choice"
	KindDropdown       Kind = "dropdown"
	KindNumeric        Kind = "numeric"
)

// Known reports whether the kind is part of the documented taxonomy. Unknown
// kinds still decode; renderers decide how to treat them.
func (k Kind) Known() bool {
	switch k {
	case KindString, KindFreeText, KindFile, KindBoolean, KindDate,
		KindComplex, KindMultipleChoice, KindDropdown, KindNumeric:
		return true
	default:
		return false
	}
}

// Choice is one selectable option of a multiple_choice or dropdown node.
type Choice struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// FormField is a node from the form_fields array. Which constraint fields are
// populated depends entirely on Type.
type FormField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     Kind   `json:"type"`
	Required bool   `json:"required"`

	// string
	MaxLength int `json:"max_length,omitempty"`

	// file
	SupportedFileTypes []string `json:"supported_file_types,omitempty"`
	MaxFileSize        int64    `json:"max_file_size,omitempty"`

	// complex
	Multiple bool        `json:"multiple,omitempty"`
	Fields   []FormField `json:"fields,omitempty"`
}

// Question is a node from the questions array. Questions are keyed by ID and
// labelled by Body but otherwise follow the same kind taxonomy as fields.
type Question struct {
	ID       string `json:"id"`
	Body     string `json:"body"`
	Type     Kind   `json:"type"`
	Required bool   `json:"required"`

	SingleAnswer bool     `json:"single_answer,omitempty"`
	Choices      []Choice `json:"choices,omitempty"`

	SupportedFileTypes []string `json:"supported_file_types,omitempty"`
	MaxFileSize        int64    `json:"max_file_size,omitempty"`
}

// ApplicationForm is the root document. Both arrays are optional upstream.
type ApplicationForm struct {
	FormFields []FormField `json:"form_fields"`
	Questions  []Question  `json:"questions"`
}

// Decode parses and validates an application form document.
func Decode(data []byte) (*ApplicationForm, error) {
	var form ApplicationForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("schema: decode application form: %w", err)
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return &form, nil
}

// Validate checks the structural invariants the renderer relies on: every
// key/id must be unique within the flattened node set, since they become DOM
// identifiers and submission payload keys.
func (f *ApplicationForm) Validate() error {
	seen := make(map[string]struct{})

	var walk func(fields []FormField) error
	walk = func(fields []FormField) error {
		for _, field := range fields {
			key := strings.TrimSpace(field.Key)
			if key == "" {
				return fmt.Errorf("schema: form field with empty key (label %q)", field.Label)
			}
			if _, dup := seen[key]; dup {
				return fmt.Errorf("schema: duplicate field key %q", key)
			}
			seen[key] = struct{}{}
			if len(field.Fields) > 0 {
				if err := walk(field.Fields); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(f.FormFields); err != nil {
		return err
	}
	for _, question := range f.Questions {
		id := strings.TrimSpace(question.ID)
		if id == "" {
			return fmt.Errorf("schema: question with empty id (body %q)", question.Body)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("schema: duplicate question id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Empty reports whether the document carries no renderable nodes at all.
func (f *ApplicationForm) Empty() bool {
	return f == nil || (len(f.FormFields) == 0 && len(f.Questions) == 0)
}
