package submission_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/api"
	"github.com/ianbrown80/workable-plugin/pkg/submission"
	"github.com/ianbrown80/workable-plugin/pkg/validation"
)

func newSubmitter(t *testing.T, handler http.HandlerFunc) *submission.Submitter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(api.Config{Token: "tok", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	catalog, err := messages.NewCatalog("en")
	if err != nil {
		t.Fatalf("catalog init failed: %v", err)
	}
	return submission.NewSubmitter(client, catalog)
}

func TestSubmitSuccess(t *testing.T) {
	submitter := newSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	values := validation.Values{}
	values.Set("firstname", "Ada")
	result := submitter.Submit(context.Background(), sampleForm(), values, nil)
	if !result.OK() {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Success != "Thank you for your submission" {
		t.Fatalf("unexpected success message: %q", result.Success)
	}
}

func TestSubmitRejectionSurfacesUpstreamMessage(t *testing.T) {
	submitter := newSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Email already used"}`))
	})

	result := submitter.Submit(context.Background(), sampleForm(), validation.Values{}, nil)
	if result.OK() || result.Error != "Email already used" {
		t.Fatalf("expected verbatim rejection message, got %+v", result)
	}
}

func TestSubmitServerFailureUsesGenericMessage(t *testing.T) {
	submitter := newSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	result := submitter.Submit(context.Background(), sampleForm(), validation.Values{}, nil)
	if result.OK() {
		t.Fatal("expected failure result")
	}
	if result.Error != "Unfortunatly we were unable to submit your application. Please try again later" {
		t.Fatalf("unexpected generic message: %q", result.Error)
	}
}

func TestSubmitTransportFailureUsesGenericMessage(t *testing.T) {
	client, err := api.New(api.Config{Token: "tok", BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	catalog, err := messages.NewCatalog("en")
	if err != nil {
		t.Fatalf("catalog init failed: %v", err)
	}
	submitter := submission.NewSubmitter(client, catalog)

	result := submitter.Submit(context.Background(), sampleForm(), validation.Values{}, nil)
	if result.OK() || result.Error == "" {
		t.Fatalf("expected generic failure message, got %+v", result)
	}
}

func TestSubmitOversizedFileFailsBeforeTransport(t *testing.T) {
	called := false
	submitter := newSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	})

	result := submitter.Submit(context.Background(), sampleForm(), validation.Values{}, map[string]submission.File{
		"resume": {Name: "cv.pdf", Data: make([]byte, 64)},
	})
	if result.OK() {
		t.Fatal("expected rejection for oversized upload")
	}
	if called {
		t.Fatal("oversized upload must not reach the network")
	}
}
