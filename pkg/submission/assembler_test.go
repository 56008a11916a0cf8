package submission_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/schema"
	"github.com/ianbrown80/workable-plugin/pkg/submission"
	"github.com/ianbrown80/workable-plugin/pkg/validation"
)

func sampleForm() model.Form {
	return model.Form{
		Shortcode: "MX1",
		Fields: []model.Field{
			{Name: "firstname", Kind: schema.KindString, Required: true},
			{Name: "summary", Kind: schema.KindFreeText},
			{Name: "resume", Kind: schema.KindFile, MaxFileSize: 16},
			{Name: "experience", Kind: schema.KindComplex, Repeatable: true},
		},
	}
}

func TestAssembleDropsTransportAndEmptyFields(t *testing.T) {
	values := validation.Values{}
	values.Set("firstname", "Ada")
	values.Set("summary", "")
	values.Set("workable_form_nonce", "abc123")
	values.Set("action", "send_application_form")
	values.Set("_wp_http_referer", "/jobs")
	values.Set("experience", `[{"title":"Cook"}]`)

	payload, err := submission.Assemble(sampleForm(), values, nil)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	want := submission.Payload{
		"firstname":  "Ada",
		"experience": `[{"title":"Cook"}]`,
		"sourced":    false,
		"shortcode":  "MX1",
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleMultiValueFields(t *testing.T) {
	values := validation.Values{}
	values.Set("q1", "choice-a", "choice-c", "")

	payload, err := submission.Assemble(sampleForm(), values, nil)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if diff := cmp.Diff([]string{"choice-a", "choice-c"}, payload["q1"]); diff != "" {
		t.Fatalf("multi-value mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleEncodesFiles(t *testing.T) {
	data := []byte("pdf-bytes")
	payload, err := submission.Assemble(sampleForm(), validation.Values{}, map[string]submission.File{
		"resume": {Name: "cv.pdf", Data: data},
	})
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	descriptor, ok := payload["resume"].(submission.FileDescriptor)
	if !ok {
		t.Fatalf("expected file descriptor, got %T", payload["resume"])
	}
	if descriptor.Name != "cv.pdf" {
		t.Fatalf("unexpected file name %q", descriptor.Name)
	}
	if descriptor.Data != base64.StdEncoding.EncodeToString(data) {
		t.Fatalf("unexpected base64 payload %q", descriptor.Data)
	}
}

func TestAssembleEnforcesDeclaredSizeLimit(t *testing.T) {
	oversized := make([]byte, 17) // resume limit is 16 bytes in sampleForm
	_, err := submission.Assemble(sampleForm(), validation.Values{}, map[string]submission.File{
		"resume": {Name: "cv.pdf", Data: oversized},
	})

	var tooLarge *submission.FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}
	if tooLarge.Limit != 16 || tooLarge.Size != 17 {
		t.Fatalf("unexpected error detail: %+v", tooLarge)
	}
}

func TestAssembleSkipsEmptyFileSelections(t *testing.T) {
	payload, err := submission.Assemble(sampleForm(), validation.Values{}, map[string]submission.File{
		"resume": {},
	})
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if _, present := payload["resume"]; present {
		t.Fatal("empty file selection should be omitted")
	}
}

func TestAssembleUndeclaredFieldHasNoLimit(t *testing.T) {
	big := make([]byte, 1024)
	payload, err := submission.Assemble(sampleForm(), validation.Values{}, map[string]submission.File{
		"cover_letter": {Name: "letter.pdf", Data: big},
	})
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if _, present := payload["cover_letter"]; !present {
		t.Fatal("file for undeclared field should pass through")
	}
}
