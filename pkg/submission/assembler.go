// Package submission turns the current widget values of a form into the
// candidate payload the hiring API accepts, and maps the submission outcome
// to a user-facing result.
package submission

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/validation"
)

// File is one uploaded file, keyed off the field name in Assemble.
type File struct {
	Name string
	Data []byte
}

// FileDescriptor is the wire shape of an uploaded file.
type FileDescriptor struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Payload is the candidate document posted to the API.
type Payload map[string]any

// transportFields never leave the page boundary: they belong to the host's
// dispatch contract, not to the candidate payload.
var transportFields = map[string]struct{}{
	"workable_form_nonce": {},
	"action":              {},
	"_wp_http_referer":    {},
}

// FileTooLargeError reports an upload over the schema-declared size limit.
// Limits are enforced here, before any bytes go on the wire.
type FileTooLargeError struct {
	Field string
	Name  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("submission: file %q for field %q is %d bytes, limit %d", e.Name, e.Field, e.Size, e.Limit)
}

// Assemble builds a fresh payload from the current values and uploads. The
// caller is expected to have run validation already; Assemble does not
// re-validate. Empty values are dropped, transport fields are stripped,
// uploads become base64 descriptors, and the sourced marker plus the target
// shortcode are attached.
func Assemble(form model.Form, values validation.Values, files map[string]File) (Payload, error) {
	payload := Payload{}

	for name, list := range values {
		if _, transport := transportFields[name]; transport {
			continue
		}
		switch len(list) {
		case 0:
			// nothing submitted
		case 1:
			if list[0] != "" {
				payload[name] = list[0]
			}
		default:
			kept := make([]string, 0, len(list))
			for _, value := range list {
				if value != "" {
					kept = append(kept, value)
				}
			}
			if len(kept) > 0 {
				payload[name] = kept
			}
		}
	}

	for name, file := range files {
		if _, transport := transportFields[name]; transport {
			continue
		}
		if file.Name == "" || len(file.Data) == 0 {
			continue
		}
		if field, ok := form.Field(name); ok && field.MaxFileSize > 0 {
			if size := int64(len(file.Data)); size > field.MaxFileSize {
				return nil, &FileTooLargeError{
					Field: name,
					Name:  file.Name,
					Size:  size,
					Limit: field.MaxFileSize,
				}
			}
		}
		payload[name] = FileDescriptor{
			Name: file.Name,
			Data: base64.StdEncoding.EncodeToString(file.Data),
		}
	}

	payload["sourced"] = false
	if shortcode := strings.TrimSpace(form.Shortcode); shortcode != "" {
		payload["shortcode"] = shortcode
	}

	return payload, nil
}
