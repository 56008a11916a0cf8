package api

import "fmt"

// FetchCode classifies schema fetch failures. The values mirror the error
// codes the hiring API surfaces so callers can map them to user-facing copy.
type FetchCode string

const (
	FetchMissingShortcode FetchCode = "missing_shortcode"
	FetchNotAuthorised    FetchCode = "not_authorised"
	FetchNotFound         FetchCode = "not_found"
	FetchDecode           FetchCode = "decode"
	FetchUnknown          FetchCode = "unknown"
)

// FetchError is the terminal outcome of a failed GetApplicationForm call.
type FetchError struct {
	Code    FetchCode
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: fetch application form: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: fetch application form: %s", e.Code)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError is the terminal outcome of a failed SubmitCandidate call.
// Status 401 and 422 responses carry the upstream message verbatim; every
// other failure leaves Message empty so callers fall back to a generic one.
type SubmitError struct {
	Status  int
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: submit candidate: status %d: %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api: submit candidate: %v", e.Err)
	}
	return fmt.Sprintf("api: submit candidate: status %d", e.Status)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Rejected reports whether the API rejected the payload with a message that
// is safe to surface to the candidate.
func (e *SubmitError) Rejected() bool {
	return e.Status == 401 || e.Status == 422
}
