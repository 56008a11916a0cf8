package prompt_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/prompt"
	"github.com/ianbrown80/workable-plugin/pkg/schema"
)

// fakeDriver replays scripted answers, one per prompt, in call order.
type fakeDriver struct {
	inputs   []string
	editors  []string
	confirms []bool
	selects  []int
	multis   [][]int

	err error
}

func (d *fakeDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if len(d.inputs) == 0 {
		return "", fmt.Errorf("fake driver: unexpected Input call")
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *fakeDriver) Editor(_ context.Context, _ prompt.InputConfig) (string, error) {
	if len(d.editors) == 0 {
		return "", fmt.Errorf("fake driver: unexpected Editor call")
	}
	out := d.editors[0]
	d.editors = d.editors[1:]
	return out, nil
}

func (d *fakeDriver) Confirm(_ context.Context, _ prompt.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, fmt.Errorf("fake driver: unexpected Confirm call")
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *fakeDriver) Select(_ context.Context, _ prompt.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, fmt.Errorf("fake driver: unexpected Select call")
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *fakeDriver) MultiSelect(_ context.Context, _ prompt.SelectConfig) ([]int, error) {
	if len(d.multis) == 0 {
		return nil, fmt.Errorf("fake driver: unexpected MultiSelect call")
	}
	out := d.multis[0]
	d.multis = d.multis[1:]
	return out, nil
}

func (d *fakeDriver) Info(_ context.Context, _ string) error { return nil }

func newFlow(t *testing.T, driver *fakeDriver) *prompt.Flow {
	t.Helper()

	catalog, err := messages.NewCatalog("en")
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	flow, err := prompt.NewFlow(catalog, prompt.WithDriver(driver))
	if err != nil {
		t.Fatalf("build flow: %v", err)
	}
	return flow
}

func TestCollectScalarValues(t *testing.T) {
	driver := &fakeDriver{
		inputs:  []string{"Ada", "ada@example.com"},
		editors: []string{"I build compilers."},
	}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{
		{Name: "firstname", Label: "First name", Kind: schema.KindString, Required: true},
		{Name: "email", Label: "Email", Kind: schema.KindString, Format: "email", Required: true},
		{Name: "summary", Label: "Summary", Kind: schema.KindFreeText},
	}}

	values, files, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := values.Get("firstname"); got != "Ada" {
		t.Errorf("firstname = %q", got)
	}
	if got := values.Get("email"); got != "ada@example.com" {
		t.Errorf("email = %q", got)
	}
	if got := values.Get("summary"); got != "I build compilers." {
		t.Errorf("summary = %q", got)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestCollectSkipsBlankOptionalValues(t *testing.T) {
	driver := &fakeDriver{inputs: []string{"   "}}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{
		{Name: "phone", Label: "Phone", Kind: schema.KindString},
	}}

	values, _, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, ok := values["phone"]; ok {
		t.Error("expected blank answer to be skipped")
	}
}

func TestCollectBoolean(t *testing.T) {
	driver := &fakeDriver{confirms: []bool{true}}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{
		{Name: "remote", Label: "Remote?", Kind: schema.KindBoolean},
	}}

	values, _, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := values.Get("remote"); got != "true" {
		t.Errorf("remote = %q", got)
	}
}

func TestCollectSingleChoice(t *testing.T) {
	driver := &fakeDriver{selects: []int{1}}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{{
		Name:         "q1",
		Label:        "Colour",
		Kind:         schema.KindMultipleChoice,
		Required:     true,
		SingleAnswer: true,
		Choices:      []schema.Choice{{ID: "c1", Body: "Red"}, {ID: "c2", Body: "Blue"}},
	}}}

	values, _, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := values.Get("q1"); got != "c2" {
		t.Errorf("q1 = %q", got)
	}
}

func TestCollectOptionalSingleChoiceCanBeSkipped(t *testing.T) {
	// Index 0 is the skip placeholder on optional single-answer prompts.
	driver := &fakeDriver{selects: []int{0}}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{{
		Name:         "q1",
		Label:        "Colour",
		Kind:         schema.KindDropdown,
		SingleAnswer: true,
		Choices:      []schema.Choice{{ID: "c1", Body: "Red"}},
	}}}

	values, _, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, ok := values["q1"]; ok {
		t.Error("expected skipped choice to record nothing")
	}
}

func TestCollectMultiChoice(t *testing.T) {
	driver := &fakeDriver{multis: [][]int{{0, 2}}}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{{
		Name:  "q2",
		Label: "Offices",
		Kind:  schema.KindMultipleChoice,
		Choices: []schema.Choice{
			{ID: "ldn", Body: "London"},
			{ID: "nyc", Body: "New York"},
			{ID: "ber", Body: "Berlin"},
		},
	}}}

	values, _, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	got := values["q2"]
	if len(got) != 2 || got[0] != "ldn" || got[1] != "ber" {
		t.Errorf("q2 = %v", got)
	}
}

func TestCollectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(path, []byte("pdf-bytes"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	driver := &fakeDriver{inputs: []string{path}}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{
		{Name: "resume", Label: "Resume", Kind: schema.KindFile, Required: true},
	}}

	_, files, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	file, ok := files["resume"]
	if !ok {
		t.Fatal("expected resume file to be collected")
	}
	if file.Name != "resume.pdf" {
		t.Errorf("file name = %q", file.Name)
	}
	if string(file.Data) != "pdf-bytes" {
		t.Errorf("file data = %q", file.Data)
	}
}

func TestCollectRepeatableGroup(t *testing.T) {
	driver := &fakeDriver{
		// add? yes, current role? yes, add another? no
		confirms: []bool{true, true, false},
		inputs:   []string{"Acme"},
	}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{{
		Name:       "experience",
		Label:      "Work experience",
		Kind:       schema.KindComplex,
		Repeatable: true,
		Nested: []model.Field{
			{Name: "company", Label: "Company", Kind: schema.KindString},
			{Name: "current", Label: "Current role", Kind: schema.KindBoolean},
		},
	}}}

	values, _, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := `[{"company":"Acme","current":"true"}]`
	if got := values.Get("experience"); got != want {
		t.Errorf("experience = %q, want %q", got, want)
	}
}

func TestCollectGroupWithNoRowsRecordsNothing(t *testing.T) {
	driver := &fakeDriver{confirms: []bool{false}}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{{
		Name:       "experience",
		Label:      "Work experience",
		Kind:       schema.KindComplex,
		Repeatable: true,
		Nested:     []model.Field{{Name: "company", Label: "Company", Kind: schema.KindString}},
	}}}

	values, _, err := flow.Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, ok := values["experience"]; ok {
		t.Error("expected no encoded value without committed rows")
	}
}

func TestCollectPropagatesAbort(t *testing.T) {
	driver := &fakeDriver{err: prompt.ErrAborted}
	flow := newFlow(t, driver)

	form := model.Form{Fields: []model.Field{
		{Name: "firstname", Label: "First name", Kind: schema.KindString, Required: true},
	}}

	if _, _, err := flow.Collect(context.Background(), form); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
