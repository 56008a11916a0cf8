// Package messages holds the user-facing copy of the form lifecycle:
// validation prompts, submission outcomes, and widget placeholders. All
// strings flow through a go-i18n bundle so hosts can ship extra locales.
package messages

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed active.en.toml
var defaultMessages []byte

// Message identifiers used across the module.
const (
	RequiredField     = "required_field"
	InvalidEmail      = "invalid_email"
	MissingShortcode  = "missing_shortcode"
	SubmitSuccess     = "submit_success"
	SubmitRetry       = "submit_retry"
	SelectPlaceholder = "select_placeholder"
	BooleanYes        = "boolean_yes"
	BooleanNo         = "boolean_no"
	GroupAdd          = "group_add"
	GroupSave         = "group_save"
	SubmitButton      = "submit_button"
	FileTooLarge      = "file_too_large"
	UnsupportedField  = "unsupported_field"
)

// Catalog resolves message identifiers for one language.
type Catalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
}

// NewCatalog builds a catalog with the embedded English defaults and the
// requested language active. Extra locale files can be layered on with
// LoadMessageFile before first use.
func NewCatalog(lang string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.ParseMessageFileBytes(defaultMessages, "active.en.toml"); err != nil {
		return nil, fmt.Errorf("messages: parse embedded catalog: %w", err)
	}

	if lang == "" {
		lang = "en"
	}
	return &Catalog{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, lang, "en"),
	}, nil
}

// LoadMessageFile layers a locale file onto the bundle.
func (c *Catalog) LoadMessageFile(path string) error {
	if _, err := c.bundle.LoadMessageFile(path); err != nil {
		return fmt.Errorf("messages: load %s: %w", path, err)
	}
	return nil
}

// SetLanguage switches the active language. Unknown languages fall back to
// English at lookup time.
func (c *Catalog) SetLanguage(lang string) {
	c.localizer = i18n.NewLocalizer(c.bundle, lang, "en")
}

// T resolves a message id with no template data.
func (c *Catalog) T(id string) string {
	return c.Tf(id, nil)
}

// Tf resolves a message id with template data.
func (c *Catalog) Tf(id string, data map[string]any) string {
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}
