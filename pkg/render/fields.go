package render

import (
	"bytes"
	"html"
	"strconv"
	"strings"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/model"
)

func renderString(buf *bytes.Buffer, field model.Field, rc Context) error {
	inputType := "text"
	if field.Email() {
		inputType = "email"
	}
	return renderInput(buf, field, rc, inputType)
}

func renderDate(buf *bytes.Buffer, field model.Field, rc Context) error {
	return renderInput(buf, field, rc, "date")
}

func renderNumeric(buf *bytes.Buffer, field model.Field, rc Context) error {
	return renderInput(buf, field, rc, "number")
}

func renderInput(buf *bytes.Buffer, field model.Field, rc Context, inputType string) error {
	data := map[string]any{
		"input_type": inputType,
		"control_id": rc.ControlID(field.Name),
		"name":       field.Name,
		"required":   field.Required,
	}
	if field.MaxLength > 0 {
		data["max_length"] = field.MaxLength
	}
	return renderTemplate(buf, rc, "components/input", data)
}

func renderFreeText(buf *bytes.Buffer, field model.Field, rc Context) error {
	return renderTemplate(buf, rc, "components/textarea", map[string]any{
		"control_id": rc.ControlID(field.Name),
		"name":       field.Name,
		"required":   field.Required,
	})
}

func renderFile(buf *bytes.Buffer, field model.Field, rc Context) error {
	data := map[string]any{
		"control_id": rc.ControlID(field.Name),
		"name":       field.Name,
		"required":   field.Required,
	}
	if len(field.SupportedFileTypes) > 0 {
		data["accept"] = acceptList(field.SupportedFileTypes)
	}
	if field.MaxFileSize > 0 {
		data["max_size"] = strconv.FormatInt(field.MaxFileSize, 10)
	}
	return renderTemplate(buf, rc, "components/file", data)
}

// acceptList turns declared extensions into the value of an accept
// attribute, e.g. ".pdf, .doc".
func acceptList(types []string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(strings.TrimPrefix(t, "."))
		if t == "" {
			continue
		}
		parts = append(parts, "."+t)
	}
	return strings.Join(parts, ", ")
}

func renderBoolean(buf *bytes.Buffer, field model.Field, rc Context) error {
	return renderTemplate(buf, rc, "components/boolean", map[string]any{
		"control_id": rc.ControlID(field.Name),
		"name":       field.Name,
		"yes":        rc.Catalog.T(messages.BooleanYes),
		"no":         rc.Catalog.T(messages.BooleanNo),
	})
}

func renderMultipleChoice(buf *bytes.Buffer, field model.Field, rc Context) error {
	widget := "checkbox"
	if field.SingleAnswer {
		widget = "radio"
	}
	return renderTemplate(buf, rc, "components/choice_group", map[string]any{
		"control_id": rc.ControlID(field.Name),
		"name":       field.Name,
		"widget":     widget,
		"choices":    choiceData(field),
	})
}

func renderDropdown(buf *bytes.Buffer, field model.Field, rc Context) error {
	return renderTemplate(buf, rc, "components/select", map[string]any{
		"control_id":  rc.ControlID(field.Name),
		"name":        field.Name,
		"required":    field.Required,
		"multiple":    !field.SingleAnswer,
		"placeholder": rc.Catalog.T(messages.SelectPlaceholder),
		"choices":     choiceData(field),
	})
}

func choiceData(field model.Field) []map[string]any {
	choices := make([]map[string]any, 0, len(field.Choices))
	for _, c := range field.Choices {
		choices = append(choices, map[string]any{
			"id":   c.ID,
			"body": plainText(c.Body),
		})
	}
	return choices
}

// renderComplex produces the whole repeatable-group fieldset: the row entry
// controls (hidden while the group is idle), the add and save buttons, and
// the hidden input that carries the committed rows as JSON. Non-repeatable
// groups have no defined markup and are surfaced as unsupported.
func renderComplex(buf *bytes.Buffer, field model.Field, rc Context) error {
	if !field.Repeatable {
		return &UnsupportedFieldError{Name: field.Name, Kind: field.Kind}
	}

	controlID := rc.ControlID(field.Name)

	buf.WriteString(`<fieldset class="workable-form--fieldset workable-form--group`)
	if field.Required {
		buf.WriteString(` workable-form--field-required`)
	}
	buf.WriteString(`" id="` + html.EscapeString(controlID) + `">`)

	buf.WriteString(`<legend class="workable-form--label">`)
	buf.WriteString(html.EscapeString(plainText(field.Label)))
	if field.Required {
		buf.WriteString(`<span class="workable-form--required">*</span>`)
	}
	buf.WriteString(`</legend>`)

	buf.WriteString(`<div class="workable-form--group-rows workable-form--hidden" id="` +
		html.EscapeString(controlID) + `-rows">`)
	for _, nested := range field.Nested {
		markup, err := rc.RenderNested(nested)
		if err != nil {
			return err
		}
		buf.WriteString(markup)
	}
	buf.WriteString(`<button type="button" class="workable-form--button workable-form--group-save" id="` +
		html.EscapeString(controlID) + `-save">` +
		html.EscapeString(rc.Catalog.T(messages.GroupSave)) + `</button>`)
	buf.WriteString(`</div>`)

	buf.WriteString(`<button type="button" class="workable-form--button workable-form--group-add" id="` +
		html.EscapeString(controlID) + `-add">` +
		html.EscapeString(rc.Catalog.T(messages.GroupAdd)) + `</button>`)

	// The hidden input gets its own id suffix so the fieldset and the value
	// carrier never collide.
	buf.WriteString(`<input type="hidden" name="` + html.EscapeString(field.Name) +
		`" id="` + html.EscapeString(controlID) + `-value" />`)

	buf.WriteString(`</fieldset>`)
	return nil
}

func renderTemplate(buf *bytes.Buffer, rc Context, name string, data map[string]any) error {
	markup, err := rc.Templates.RenderTemplate(name, data)
	if err != nil {
		return err
	}
	buf.WriteString(markup)
	return nil
}
