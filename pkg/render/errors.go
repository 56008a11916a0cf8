package render

import (
	"fmt"

	"github.com/ianbrown80/workable-plugin/pkg/schema"
)

// UnsupportedPolicy decides what happens when a field reaches the renderer
// in a shape it has no markup for, such as a complex group that is not
// repeatable.
type UnsupportedPolicy int

const (
	// UnsupportedSkip drops the field from the output silently.
	UnsupportedSkip UnsupportedPolicy = iota
	// UnsupportedPlaceholder emits a visible placeholder node instead of a
	// control so the gap is noticeable during development.
	UnsupportedPlaceholder
	// UnsupportedFail aborts the render with the underlying error.
	UnsupportedFail
)

// UnsupportedFieldError reports a field the renderer cannot produce markup
// for.
type UnsupportedFieldError struct {
	Name string
	Kind schema.Kind
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("render: unsupported field %q of kind %q", e.Name, e.Kind)
}
