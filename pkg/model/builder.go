package model

import (
	"errors"
	"strings"

	"github.com/ianbrown80/workable-plugin/pkg/schema"
)

var errShortcodeMissing = errors.New("model builder: shortcode is required")

// Build flattens a decoded application form into the canonical form model.
// The fixed candidate header fields (first name, last name, email) are
// materialized ahead of the schema content so the validator and assembler
// treat them like any other node.
func Build(shortcode string, app *schema.ApplicationForm) (Form, error) {
	shortcode = strings.TrimSpace(shortcode)
	if shortcode == "" {
		return Form{}, errShortcodeMissing
	}
	if app == nil {
		app = &schema.ApplicationForm{}
	}
	if err := app.Validate(); err != nil {
		return Form{}, err
	}

	fields := make([]Field, 0, len(headerFields)+len(app.FormFields)+len(app.Questions))
	fields = append(fields, headerFields...)

	for _, node := range app.FormFields {
		fields = append(fields, fromFormField(node, OriginField))
	}
	for _, node := range app.Questions {
		fields = append(fields, fromQuestion(node))
	}

	return Form{Shortcode: shortcode, Fields: fields}, nil
}

// headerFields mirror the fixed candidate block the form always opens with.
var headerFields = []Field{
	{Name: "firstname", Label: "First name", Kind: schema.KindString, Required: true, Origin: OriginHeader},
	{Name: "lastname", Label: "Last name", Kind: schema.KindString, Required: true, Origin: OriginHeader},
	{Name: "email", Label: "Email", Kind: schema.KindString, Format: "email", Required: true, Origin: OriginHeader},
}

func fromFormField(node schema.FormField, origin Origin) Field {
	field := Field{
		Name:     node.Key,
		Label:    node.Label,
		Kind:     node.Type,
		Required: node.Required,
		Origin:   origin,
	}

	switch node.Type {
	case schema.KindString:
		field.MaxLength = node.MaxLength
	case schema.KindFile:
		field.SupportedFileTypes = node.SupportedFileTypes
		field.MaxFileSize = node.MaxFileSize
	case schema.KindComplex:
		field.Repeatable = node.Multiple
		field.Nested = make([]Field, 0, len(node.Fields))
		for _, sub := range node.Fields {
			field.Nested = append(field.Nested, fromFormField(sub, origin))
		}
	}
	return field
}

func fromQuestion(node schema.Question) Field {
	field := Field{
		Name:     node.ID,
		Label:    node.Body,
		Kind:     node.Type,
		Required: node.Required,
		Origin:   OriginQuestion,
	}

	switch node.Type {
	case schema.KindMultipleChoice, schema.KindDropdown:
		field.SingleAnswer = node.SingleAnswer
		field.Choices = node.Choices
	case schema.KindFile:
		field.SupportedFileTypes = node.SupportedFileTypes
		field.MaxFileSize = node.MaxFileSize
	}
	return field
}
