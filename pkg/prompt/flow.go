package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/groups"
	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/schema"
	"github.com/ianbrown80/workable-plugin/pkg/submission"
	"github.com/ianbrown80/workable-plugin/pkg/validation"
)

// Flow asks one prompt per form field and gathers the answers into the
// value and file maps the assembler consumes.
type Flow struct {
	driver  Driver
	catalog *messages.Catalog
}

// Option configures the flow.
type Option func(*Flow)

// WithDriver swaps the terminal driver, typically for tests.
func WithDriver(d Driver) Option {
	return func(f *Flow) {
		if d != nil {
			f.driver = d
		}
	}
}

// NewFlow builds a flow with the survey driver unless told otherwise.
func NewFlow(catalog *messages.Catalog, options ...Option) (*Flow, error) {
	if catalog == nil {
		return nil, fmt.Errorf("prompt: message catalog is required")
	}
	f := &Flow{
		driver:  NewSurveyDriver(),
		catalog: catalog,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f, nil
}

// Collect walks the form and returns the collected values and files. Fields
// of kinds without a terminal representation are skipped.
func (f *Flow) Collect(ctx context.Context, form model.Form) (validation.Values, map[string]submission.File, error) {
	values := validation.Values{}
	files := map[string]submission.File{}

	for _, field := range form.Fields {
		if err := f.promptField(ctx, field, values, files); err != nil {
			return nil, nil, err
		}
	}
	return values, files, nil
}

func (f *Flow) promptField(ctx context.Context, field model.Field, values validation.Values, files map[string]submission.File) error {
	switch field.Kind {
	case schema.KindString, schema.KindDate, schema.KindNumeric:
		value, err := f.driver.Input(ctx, InputConfig{
			Message:   fieldMessage(field),
			Validator: f.scalarValidator(field),
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(value) != "" {
			values.Set(field.Name, value)
		}
		return nil

	case schema.KindFreeText:
		value, err := f.driver.Editor(ctx, InputConfig{
			Message:   fieldMessage(field),
			Validator: f.scalarValidator(field),
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(value) != "" {
			values.Set(field.Name, value)
		}
		return nil

	case schema.KindBoolean:
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: fieldMessage(field)})
		if err != nil {
			return err
		}
		values.Set(field.Name, strconv.FormatBool(answer))
		return nil

	case schema.KindFile:
		return f.promptFile(ctx, field, files)

	case schema.KindMultipleChoice, schema.KindDropdown:
		return f.promptChoices(ctx, field, values)

	case schema.KindComplex:
		if !field.Repeatable {
			return nil
		}
		return f.promptGroup(ctx, field, values)

	default:
		return nil
	}
}

func (f *Flow) promptFile(ctx context.Context, field model.Field, files map[string]submission.File) error {
	help := ""
	if len(field.SupportedFileTypes) > 0 {
		help = "Accepted: " + strings.Join(field.SupportedFileTypes, ", ")
	}

	path, err := f.driver.Input(ctx, InputConfig{
		Message:   fieldMessage(field),
		Help:      help,
		Validator: f.scalarValidator(field),
	})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("prompt: read %s: %w", path, err)
	}
	files[field.Name] = submission.File{
		Name: filepath.Base(path),
		Data: data,
	}
	return nil
}

func (f *Flow) promptChoices(ctx context.Context, field model.Field, values validation.Values) error {
	if len(field.Choices) == 0 {
		return nil
	}

	options := make([]string, 0, len(field.Choices)+1)
	skipIndex := -1
	if field.SingleAnswer && !field.Required {
		options = append(options, f.catalog.T(messages.SelectPlaceholder))
		skipIndex = 0
	}
	for _, choice := range field.Choices {
		options = append(options, choice.Body)
	}

	if field.SingleAnswer {
		picked, err := f.driver.Select(ctx, SelectConfig{
			Message: fieldMessage(field),
			Options: options,
		})
		if err != nil {
			return err
		}
		if picked < 0 || picked == skipIndex {
			return nil
		}
		if skipIndex >= 0 {
			picked--
		}
		values.Set(field.Name, field.Choices[picked].ID)
		return nil
	}

	picked, err := f.driver.MultiSelect(ctx, SelectConfig{
		Message: fieldMessage(field),
		Options: options,
	})
	if err != nil {
		return err
	}
	for _, idx := range picked {
		if idx >= 0 && idx < len(field.Choices) {
			values.Add(field.Name, field.Choices[idx].ID)
		}
	}
	return nil
}

// promptGroup runs the add/save cycle of a repeatable group in terminal
// form: each confirmed round collects one committed row.
func (f *Flow) promptGroup(ctx context.Context, field model.Field, values validation.Values) error {
	controller := groups.NewController()

	addMessage := f.catalog.T(messages.GroupAdd) + " " + field.Label + "?"
	for {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{Message: addMessage})
		if err != nil {
			return err
		}
		if !more {
			break
		}

		if err := controller.Add(); err != nil {
			return err
		}
		for _, nested := range field.Nested {
			value, err := f.promptGroupValue(ctx, nested)
			if err != nil {
				return err
			}
			if err := controller.Set(nested.Name, value); err != nil {
				return err
			}
		}
		if _, err := controller.Save(); err != nil {
			return err
		}
	}

	if len(controller.Rows()) == 0 {
		return nil
	}
	encoded, err := controller.EncodedValue()
	if err != nil {
		return err
	}
	values.Set(field.Name, encoded)
	return nil
}

// promptGroupValue collects one nested value as the string the hidden field
// would carry in a page context.
func (f *Flow) promptGroupValue(ctx context.Context, field model.Field) (string, error) {
	switch field.Kind {
	case schema.KindBoolean:
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: fieldMessage(field)})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(answer), nil

	case schema.KindMultipleChoice, schema.KindDropdown:
		scratch := validation.Values{}
		if err := f.promptChoices(ctx, field, scratch); err != nil {
			return "", err
		}
		return scratch.Get(field.Name), nil

	case schema.KindFreeText:
		return f.driver.Editor(ctx, InputConfig{Message: fieldMessage(field)})

	default:
		return f.driver.Input(ctx, InputConfig{Message: fieldMessage(field)})
	}
}

// scalarValidator enforces requiredness and email shape at prompt time so
// the applicant is corrected immediately instead of at submit.
func (f *Flow) scalarValidator(field model.Field) func(string) error {
	required := field.Required
	email := field.Email()
	if !required && !email {
		return nil
	}
	return func(value string) error {
		trimmed := strings.TrimSpace(value)
		if required && trimmed == "" {
			return fmt.Errorf("%s", f.catalog.T(messages.RequiredField))
		}
		if email && trimmed != "" && !validation.ValidEmail(trimmed) {
			return fmt.Errorf("%s", f.catalog.T(messages.InvalidEmail))
		}
		return nil
	}
}

func fieldMessage(field model.Field) string {
	msg := strings.TrimSpace(field.Label)
	if msg == "" {
		msg = field.Name
	}
	if field.Required {
		msg += " *"
	}
	return msg
}
