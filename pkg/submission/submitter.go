package submission

import (
	"context"
	"errors"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/api"
	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/validation"
)

// Result is the user-visible outcome of one submission attempt. Exactly one
// of Success/Error is set.
type Result struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the submission succeeded.
func (r Result) OK() bool { return r.Error == "" }

// Submitter assembles and posts candidate payloads, translating outcomes
// into catalog messages.
type Submitter struct {
	client  *api.Client
	catalog *messages.Catalog
}

// NewSubmitter wires the transport and the message catalog.
func NewSubmitter(client *api.Client, catalog *messages.Catalog) *Submitter {
	return &Submitter{client: client, catalog: catalog}
}

// Submit performs exactly one submission attempt and maps the outcome:
// 201 yields the fixed confirmation message; 401/422 surface the upstream
// message verbatim; anything else (including transport failures and
// client-side size rejections) yields the generic retry message.
func (s *Submitter) Submit(ctx context.Context, form model.Form, values validation.Values, files map[string]File) Result {
	payload, err := Assemble(form, values, files)
	if err != nil {
		var tooLarge *FileTooLargeError
		if errors.As(err, &tooLarge) {
			return Result{Error: s.catalog.Tf(messages.FileTooLarge, map[string]any{
				"Name":  tooLarge.Name,
				"Limit": tooLarge.Limit,
			})}
		}
		return Result{Error: s.catalog.T(messages.SubmitRetry)}
	}

	if err := s.client.SubmitCandidate(ctx, form.Shortcode, payload); err != nil {
		var submitErr *api.SubmitError
		if errors.As(err, &submitErr) && submitErr.Rejected() && submitErr.Message != "" {
			return Result{Error: submitErr.Message}
		}
		return Result{Error: s.catalog.T(messages.SubmitRetry)}
	}

	return Result{Success: s.catalog.T(messages.SubmitSuccess)}
}
