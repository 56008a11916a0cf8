package groups_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianbrown80/workable-plugin/pkg/groups"
)

func TestAddSaveRoundTrip(t *testing.T) {
	ctrl := groups.NewController()
	if ctrl.State() != groups.Idle {
		t.Fatalf("expected initial Idle state, got %v", ctrl.State())
	}

	if err := ctrl.Add(); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if ctrl.State() != groups.Collecting {
		t.Fatalf("expected Collecting after Add, got %v", ctrl.State())
	}

	mustSet(t, ctrl, "a", "x")
	mustSet(t, ctrl, "b", "true")

	row, err := ctrl.Save()
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if diff := cmp.Diff(groups.Row{"a": "x", "b": "true"}, row); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if ctrl.State() != groups.Idle {
		t.Fatalf("expected Idle after Save, got %v", ctrl.State())
	}

	encoded, err := ctrl.EncodedValue()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if encoded != `[{"a":"x","b":"true"}]` {
		t.Fatalf("unexpected encoded value: %s", encoded)
	}
}

func TestSecondCycleOmitsEmptyValues(t *testing.T) {
	ctrl := groups.NewController()

	mustAdd(t, ctrl)
	mustSet(t, ctrl, "a", "x")
	mustSet(t, ctrl, "b", "true")
	mustSave(t, ctrl)

	mustAdd(t, ctrl)
	mustSet(t, ctrl, "a", "y")
	mustSet(t, ctrl, "b", "") // left unset: never committed
	mustSave(t, ctrl)

	want := []groups.Row{{"a": "x", "b": "true"}, {"a": "y"}}
	if diff := cmp.Diff(want, ctrl.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	encoded, err := ctrl.EncodedValue()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := groups.DecodeValue(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUntouchedDraftCommitsEmptyRow(t *testing.T) {
	ctrl := groups.NewController()
	mustAdd(t, ctrl)
	row := mustSave(t, ctrl)
	if len(row) != 0 {
		t.Fatalf("expected empty row, got %v", row)
	}
	encoded, _ := ctrl.EncodedValue()
	if encoded != `[{}]` {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
}

func TestTransitionGuards(t *testing.T) {
	ctrl := groups.NewController()

	if err := ctrl.Set("a", "x"); err != groups.ErrNotCollecting {
		t.Fatalf("expected ErrNotCollecting from Set, got %v", err)
	}
	if _, err := ctrl.Save(); err != groups.ErrNotCollecting {
		t.Fatalf("expected ErrNotCollecting from Save, got %v", err)
	}

	mustAdd(t, ctrl)
	if err := ctrl.Add(); err != groups.ErrAlreadyCollecting {
		t.Fatalf("expected ErrAlreadyCollecting, got %v", err)
	}
}

func TestLoadSeedsExistingRows(t *testing.T) {
	ctrl := groups.NewController()
	if err := ctrl.Load(`[{"a":"x"}]`); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	mustAdd(t, ctrl)
	mustSet(t, ctrl, "a", "y")
	mustSave(t, ctrl)

	want := []groups.Row{{"a": "x"}, {"a": "y"}}
	if diff := cmp.Diff(want, ctrl.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeValueEmptyAndInvalid(t *testing.T) {
	rows, err := groups.DecodeValue("")
	if err != nil || rows != nil {
		t.Fatalf("empty value should decode to nil, got %v / %v", rows, err)
	}
	if _, err := groups.DecodeValue("{not json"); err == nil {
		t.Fatal("expected decode error")
	}
}

func mustAdd(t *testing.T, c *groups.Controller) {
	t.Helper()
	if err := c.Add(); err != nil {
		t.Fatalf("add failed: %v", err)
	}
}

func mustSet(t *testing.T, c *groups.Controller, key, value string) {
	t.Helper()
	if err := c.Set(key, value); err != nil {
		t.Fatalf("set %s failed: %v", key, err)
	}
}

func mustSave(t *testing.T, c *groups.Controller) groups.Row {
	t.Helper()
	row, err := c.Save()
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	return row
}
