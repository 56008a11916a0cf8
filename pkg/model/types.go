package model

import "github.com/ianbrown80/workable-plugin/pkg/schema"

// Origin records which part of the schema document a field came from. The
// two halves share the kind taxonomy but use different identifier and label
// keys on the wire.
type Origin string

const (
	// OriginHeader marks the fixed candidate fields every application form
	// carries regardless of schema content.
	OriginHeader Origin = "header"
	// OriginField marks nodes from the form_fields array.
	OriginField Origin = "field"
	// OriginQuestion marks nodes from the questions array.
	OriginQuestion Origin = "question"
)

// Field models an individual input of the application form. Name doubles as
// the submission payload key; which constraint fields are set depends on
// Kind.
type Field struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Kind     schema.Kind `json:"kind"`
	Required bool        `json:"required"`
	Origin   Origin      `json:"origin"`

	// Format narrows the input widget for string fields ("email" for the
	// fixed candidate email field).
	Format string `json:"format,omitempty"`

	MaxLength int `json:"maxLength,omitempty"`

	SupportedFileTypes []string `json:"supportedFileTypes,omitempty"`
	MaxFileSize        int64    `json:"maxFileSize,omitempty"`

	// Repeatable and Nested describe complex groups.
	Repeatable bool    `json:"repeatable,omitempty"`
	Nested     []Field `json:"nested,omitempty"`

	SingleAnswer bool            `json:"singleAnswer,omitempty"`
	Choices      []schema.Choice `json:"choices,omitempty"`
}

// Email reports whether the field renders as an email input and is subject
// to the email-shape validation.
func (f Field) Email() bool {
	return f.Kind == schema.KindString && f.Format == "email"
}

// ChoiceGroup reports whether the field renders as a radio/checkbox group,
// which changes how requiredness is checked (at least one option selected
// instead of a non-empty scalar value).
func (f Field) ChoiceGroup() bool {
	switch f.Kind {
	case schema.KindBoolean, schema.KindMultipleChoice:
		return true
	default:
		return false
	}
}

// Form is the flattened representation the renderer, validator, and
// assembler consume. Fields preserves document order: header fields first,
// then form fields, then questions.
type Form struct {
	Shortcode string  `json:"shortcode"`
	Fields    []Field `json:"fields"`
}

// Field looks up a field by name, descending into nested groups.
func (f Form) Field(name string) (Field, bool) {
	return findField(f.Fields, name)
}

func findField(fields []Field, name string) (Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
		if nested, ok := findField(field.Nested, name); ok {
			return nested, true
		}
	}
	return Field{}, false
}
