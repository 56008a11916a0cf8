package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/render/template"
)

// Renderer turns a form model into an HTML fragment. Safe for concurrent
// use once constructed.
type Renderer struct {
	templates template.Renderer
	registry  *Registry
	catalog   *messages.Catalog
	policy    UnsupportedPolicy
}

// Option configures the renderer.
type Option func(*Renderer)

// WithTemplates replaces the control template engine.
func WithTemplates(t template.Renderer) Option {
	return func(r *Renderer) {
		if t != nil {
			r.templates = t
		}
	}
}

// WithRegistry replaces the kind registry.
func WithRegistry(reg *Registry) Option {
	return func(r *Renderer) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithUnsupportedPolicy controls how fields without defined markup are
// handled.
func WithUnsupportedPolicy(policy UnsupportedPolicy) Option {
	return func(r *Renderer) {
		r.policy = policy
	}
}

// New constructs a Renderer with the embedded templates and the built-in
// control set unless options say otherwise.
func New(catalog *messages.Catalog, options ...Option) (*Renderer, error) {
	if catalog == nil {
		return nil, errors.New("render: message catalog is required")
	}

	r := &Renderer{
		registry: DefaultRegistry(),
		catalog:  catalog,
		policy:   UnsupportedSkip,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.templates == nil {
		engine, err := template.New(template.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("render: load embedded templates: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

// Options carries the per-render settings a host page supplies.
type Options struct {
	// SuccessURL, when set, is emitted as a data-success attribute so the
	// page can redirect after a successful submission.
	SuccessURL string
	// Nonce is the anti-forgery token placed in the hidden transport field.
	Nonce string
	// SpinnerURL, when set, adds a hidden busy indicator next to the submit
	// button.
	SpinnerURL string
}

// RenderForm renders the whole form. An empty instanceID gets a fresh one,
// so multiple renders of the same form on one page never collide at the
// DOM level.
func (r *Renderer) RenderForm(instanceID string, form model.Form, opts Options) ([]byte, error) {
	if strings.TrimSpace(instanceID) == "" {
		instanceID = uuid.NewString()
	}

	var b strings.Builder
	b.Grow(4096)

	r.writeHeader(&b, instanceID, opts)
	for _, field := range form.Fields {
		markup, err := r.renderField(field, instanceID)
		if err != nil {
			return nil, err
		}
		b.WriteString(markup)
	}
	r.writeFooter(&b, instanceID, form.Shortcode, opts)

	return []byte(b.String()), nil
}

func (r *Renderer) writeHeader(b *strings.Builder, instanceID string, opts Options) {
	b.WriteString(`<div class="workable-form-container">`)
	b.WriteString(`<form id="workable-form-` + html.EscapeString(instanceID) +
		`" class="workable-form" action="#"`)
	if opts.SuccessURL != "" {
		b.WriteString(` data-success="` + html.EscapeString(opts.SuccessURL) + `"`)
	}
	b.WriteString(`>`)
}

func (r *Renderer) writeFooter(b *strings.Builder, instanceID, shortcode string, opts Options) {
	b.WriteString(`<input type="hidden" name="workable_form_nonce" id="workable_form_nonce-` +
		html.EscapeString(instanceID) + `" value="` + html.EscapeString(opts.Nonce) + `" />`)
	b.WriteString(`<input type="hidden" name="shortcode" id="shortcode-` +
		html.EscapeString(instanceID) + `" value="` + html.EscapeString(shortcode) + `" />`)

	b.WriteString(`<button type="submit" class="workable-form--button workable-form--submit" id="submit-` +
		html.EscapeString(instanceID) + `">` +
		html.EscapeString(r.catalog.T(messages.SubmitButton)) + `</button>`)

	if opts.SpinnerURL != "" {
		b.WriteString(`<img src="` + html.EscapeString(opts.SpinnerURL) +
			`" class="workable-form--spinner workable-form--hidden" id="spinner-` +
			html.EscapeString(instanceID) + `" alt="" />`)
	}

	b.WriteString(`<p class="workable-form--message workable-form--fail workable-form--hidden" id="workable-form-fail-` +
		html.EscapeString(instanceID) + `"></p>`)
	b.WriteString(`<p class="workable-form--message workable-form--success workable-form--hidden" id="workable-form-success-` +
		html.EscapeString(instanceID) + `"></p>`)

	b.WriteString(`</form>`)
	b.WriteString(`</div>`)
}

// renderField dispatches a field through the registry and wraps the control
// in its container. Unknown kinds render nothing.
func (r *Renderer) renderField(field model.Field, instanceID string) (string, error) {
	fn, ok := r.registry.Lookup(field.Kind)
	if !ok {
		return "", nil
	}

	rc := Context{
		Templates:  r.templates,
		Catalog:    r.catalog,
		InstanceID: instanceID,
		RenderNested: func(nested model.Field) (string, error) {
			return r.renderField(nested, instanceID)
		},
	}

	var control bytes.Buffer
	if err := fn(&control, field, rc); err != nil {
		var unsupported *UnsupportedFieldError
		if errors.As(err, &unsupported) {
			return r.renderUnsupported(unsupported)
		}
		return "", fmt.Errorf("render field %q: %w", field.Name, err)
	}

	return r.buildFieldMarkup(field, rc, control.String()), nil
}

func (r *Renderer) renderUnsupported(err *UnsupportedFieldError) (string, error) {
	switch r.policy {
	case UnsupportedPlaceholder:
		return `<p class="workable-form--unsupported">` +
			html.EscapeString(r.catalog.T(messages.UnsupportedField)) + `</p>`, nil
	case UnsupportedFail:
		return "", err
	default:
		return "", nil
	}
}

// buildFieldMarkup wraps a rendered control in its container: label or
// legend, required marker, and the hidden inline validation nodes the
// validator toggles. Group kinds already own their fieldset and only get
// the validation nodes appended inside it.
func (r *Renderer) buildFieldMarkup(field model.Field, rc Context, control string) string {
	controlID := rc.ControlID(field.Name)

	if strings.HasSuffix(control, "</fieldset>") {
		trimmed := strings.TrimSuffix(control, "</fieldset>")
		return trimmed + r.validationNodes(field, controlID) + "</fieldset>"
	}

	var b strings.Builder
	b.Grow(len(control) + 256)

	label := html.EscapeString(plainText(field.Label))
	marker := ""
	if field.Required {
		marker = `<span class="workable-form--required">*</span>`
	}

	if field.ChoiceGroup() {
		b.WriteString(`<fieldset class="workable-form--fieldset`)
		if field.Required {
			b.WriteString(` workable-form--field-required`)
		}
		b.WriteString(`" id="` + html.EscapeString(controlID) + `-field">`)
		b.WriteString(`<legend class="workable-form--label">` + label + marker + `</legend>`)
		b.WriteString(control)
		b.WriteString(r.validationNodes(field, controlID))
		b.WriteString(`</fieldset>`)
		return b.String()
	}

	b.WriteString(`<div class="workable-form--field`)
	if field.Required {
		b.WriteString(` workable-form--field-required`)
	}
	b.WriteString(`" id="` + html.EscapeString(controlID) + `-field">`)
	b.WriteString(`<label for="` + html.EscapeString(controlID) +
		`" class="workable-form--label">` + label + marker + `</label>`)
	b.WriteString(control)
	b.WriteString(r.validationNodes(field, controlID))
	b.WriteString(`</div>`)
	return b.String()
}

func (r *Renderer) validationNodes(field model.Field, controlID string) string {
	var b strings.Builder
	if field.Required {
		b.WriteString(`<p class="workable-form--validation workable-form--hidden" id="` +
			html.EscapeString(controlID) + `-empty">` +
			html.EscapeString(r.catalog.T(messages.RequiredField)) + `</p>`)
	}
	if field.Email() {
		b.WriteString(`<p class="workable-form--validation workable-form--hidden" id="` +
			html.EscapeString(controlID) + `-email">` +
			html.EscapeString(r.catalog.T(messages.InvalidEmail)) + `</p>`)
	}
	return b.String()
}
