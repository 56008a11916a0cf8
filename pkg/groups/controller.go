// Package groups implements the add/commit cycle of a repeatable complex
// field as an explicit state machine, keeping the committed rows out of the
// widget layer. The serialized form matches the JSON the hidden group input
// carries on the page.
package groups

import (
	"encoding/json"
	"errors"
	"fmt"
)

// State of the row-entry cycle.
type State int

const (
	// Idle: row-entry hidden, "Add" visible.
	Idle State = iota
	// Collecting: row-entry visible, "Add" hidden.
	Collecting
)

func (s State) String() string {
	if s == Collecting {
		return "collecting"
	}
	return "idle"
}

var (
	// ErrNotCollecting is returned by draft mutations outside a Collecting
	// cycle.
	ErrNotCollecting = errors.New("groups: no row is being collected")
	// ErrAlreadyCollecting is returned by Add while a row is open.
	ErrAlreadyCollecting = errors.New("groups: a row is already being collected")
)

// Row is one committed set of sub-field values, keyed by sub-field name.
// Empty values are never stored.
type Row map[string]string

// Controller owns the committed rows of one repeatable group. Rows are
// append-only: once saved they cannot be edited or removed.
type Controller struct {
	state State
	draft map[string]string
	rows  []Row
}

// NewController starts in Idle with no committed rows.
func NewController() *Controller {
	return &Controller{state: Idle}
}

// State reports the current cycle state.
func (c *Controller) State() State { return c.state }

// Add opens a new row-entry cycle.
func (c *Controller) Add() error {
	if c.state == Collecting {
		return ErrAlreadyCollecting
	}
	c.state = Collecting
	c.draft = make(map[string]string)
	return nil
}

// Set records a draft value for a sub-field of the open row.
func (c *Controller) Set(key, value string) error {
	if c.state != Collecting {
		return ErrNotCollecting
	}
	c.draft[key] = value
	return nil
}

// Save commits the open row and returns to Idle. Only non-empty values make
// it into the row; a draft with no values still commits an empty row, which
// is what the page does when Save is pressed on untouched inputs.
func (c *Controller) Save() (Row, error) {
	if c.state != Collecting {
		return nil, ErrNotCollecting
	}

	row := Row{}
	for key, value := range c.draft {
		if value == "" {
			continue
		}
		row[key] = value
	}

	c.rows = append(c.rows, row)
	c.draft = nil
	c.state = Idle
	return row, nil
}

// Rows returns a copy of the committed sequence.
func (c *Controller) Rows() []Row {
	out := make([]Row, len(c.rows))
	for i, row := range c.rows {
		clone := make(Row, len(row))
		for k, v := range row {
			clone[k] = v
		}
		out[i] = clone
	}
	return out
}

// EncodedValue serializes the committed rows the way the hidden group input
// carries them. No committed rows encode as the empty string, matching an
// untouched hidden field.
func (c *Controller) EncodedValue() (string, error) {
	if len(c.rows) == 0 {
		return "", nil
	}
	data, err := json.Marshal(c.rows)
	if err != nil {
		return "", fmt.Errorf("groups: encode rows: %w", err)
	}
	return string(data), nil
}

// Load seeds the controller from a hidden-field value, replacing any
// committed rows. An empty value resets to no rows.
func (c *Controller) Load(encoded string) error {
	rows, err := DecodeValue(encoded)
	if err != nil {
		return err
	}
	c.rows = rows
	return nil
}

// DecodeValue parses a hidden-field value back into rows. The empty string
// decodes to nil, mirroring the page-side default.
func DecodeValue(encoded string) ([]Row, error) {
	if encoded == "" {
		return nil, nil
	}
	var rows []Row
	if err := json.Unmarshal([]byte(encoded), &rows); err != nil {
		return nil, fmt.Errorf("groups: decode rows: %w", err)
	}
	return rows, nil
}
