package template_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ianbrown80/workable-plugin/pkg/render/template"
)

func TestEngineRendersFromFS(t *testing.T) {
	files := fstest.MapFS{
		"components/greeting.tmpl": &fstest.MapFile{
			Data: []byte(`<p id="{{ id }}">{{ body }}</p>`),
		},
	}

	engine, err := template.New(template.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("components/greeting", map[string]any{
		"id":   "hello-1",
		"body": "Hello",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := `<p id="hello-1">Hello</p>`; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestEngineEscapesInterpolatedValues(t *testing.T) {
	files := fstest.MapFS{
		"label.tmpl": &fstest.MapFile{Data: []byte(`{{ body }}`)},
	}

	engine, err := template.New(template.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("label", map[string]any{"body": `<script>x</script>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("expected escaped output, got %q", out)
	}
}

func TestEngineRequiresASource(t *testing.T) {
	if _, err := template.New(); err == nil {
		t.Error("expected error when no template source is configured")
	}
}

func TestEngineMissingTemplate(t *testing.T) {
	engine, err := template.New(template.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("components/nope", nil); err == nil {
		t.Error("expected error for missing template")
	}
}
