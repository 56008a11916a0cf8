package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/components/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded control templates so hosts can layer
// overrides or serve them through their own pipeline. Template names are
// relative to the bundle root, e.g. "components/input".
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
