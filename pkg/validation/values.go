package validation

import "strings"

// Values holds the current widget values of one form instance, keyed by
// control name. Choice groups map to the list of selected option values;
// scalar inputs map to a single-element list.
type Values map[string][]string

// Get returns the first value for a name, or "".
func (v Values) Get(name string) string {
	if list, ok := v[name]; ok && len(list) > 0 {
		return list[0]
	}
	return ""
}

// Set replaces the values for a name.
func (v Values) Set(name string, values ...string) {
	v[name] = values
}

// Add appends a value for a name.
func (v Values) Add(name, value string) {
	v[name] = append(v[name], value)
}

// Checked reports whether the name has at least one non-blank value, the
// group analogue of a checked radio/checkbox.
func (v Values) Checked(name string) bool {
	for _, value := range v[name] {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}
