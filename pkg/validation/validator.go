// Package validation is the submit gate: it re-checks the whole form on
// every attempt and reports which inline messages should be visible. It is a
// pure function of the form model and the current values, so repeated runs
// over unchanged input always produce the same report.
package validation

import (
	"regexp"
	"strings"

	"github.com/ianbrown80/workable-plugin/pkg/model"
)

// emailPattern matches the address shape the page enforces: a printable
// local part, "@", and dash/alphanumeric domain labels. Dot-separated labels
// beyond the first are optional, matching the upstream check.
var emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*$")

// Check is the message visibility of one field after a validation pass.
type Check struct {
	// ShowEmpty toggles the "please fill in" message of a required field.
	ShowEmpty bool
	// ShowEmail toggles the "valid email" message of an email input.
	ShowEmail bool
}

// Report is the outcome of one full validation pass.
type Report struct {
	// Valid is the AND of every individual check.
	Valid bool
	// Fields carries a Check for every field that owns at least one inline
	// message node (required fields and email inputs).
	Fields map[string]Check
}

// Validate runs every check across the whole form in one pass. A failing
// field never short-circuits the rest: all message states are computed so
// the caller can update every inline node at once.
func Validate(form model.Form, values Values) Report {
	report := Report{Valid: true, Fields: make(map[string]Check)}

	for _, field := range form.Fields {
		check, tracked := checkField(field, values)
		if !tracked {
			continue
		}
		if check.ShowEmpty || check.ShowEmail {
			report.Valid = false
		}
		report.Fields[field.Name] = check
	}

	return report
}

func checkField(field model.Field, values Values) (Check, bool) {
	var check Check
	tracked := false

	if field.Required {
		tracked = true
		if field.ChoiceGroup() {
			check.ShowEmpty = !values.Checked(field.Name)
		} else {
			check.ShowEmpty = strings.TrimSpace(values.Get(field.Name)) == ""
		}
	}

	if field.Email() {
		tracked = true
		check.ShowEmail = !emailPattern.MatchString(values.Get(field.Name))
	}

	return check, tracked
}

// ValidEmail reports whether a single value matches the email shape. Used by
// the interactive flow to validate at prompt time.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}
