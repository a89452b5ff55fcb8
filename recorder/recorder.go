// Package recorder persists per-iteration snapshots of the component store.
// Each recorded component is flattened into one row per attribute so the
// output can be loaded straight into a dataframe or a SQL table.
package recorder

import (
	"slices"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/tidewater-sim/eventide/codec"
	"github.com/tidewater-sim/eventide/store"
)

// Row is one attribute of one component of one entity at one virtual
// timestamp.
type Row struct {
	Timestamp float64 `json:"timestamp"`
	Entity    uint64  `json:"entity"`
	Component string  `json:"component"`
	Attribute string  `json:"attribute"`
	Value     any     `json:"value"`
}

// Recorder receives component snapshots. Implementations decide where the
// rows go; Close flushes and releases whatever backs them.
type Recorder interface {
	RecordComponent(timestamp float64, entity store.EntityID, component store.Component) error
	Close() error
}

// Flatten turns a component value into rows, one per top-level attribute in
// name order. Nested values (structs, maps, slices) are kept as their JSON
// encoding so every row value is a scalar.
func Flatten(timestamp float64, entity store.EntityID, component store.Component) ([]Row, error) {
	bz, err := codec.Encode(component)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to flatten component %q", component.Name())
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(bz, &fields); err != nil {
		return nil, eris.Wrapf(err, "component %q does not encode to an object", component.Name())
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([]Row, 0, len(names))
	for _, name := range names {
		var value any
		if err := json.Unmarshal(fields[name], &value); err != nil {
			return nil, eris.Wrapf(err, "failed to decode attribute %q", name)
		}
		switch value.(type) {
		case map[string]any, []any:
			value = string(fields[name])
		}
		rows = append(rows, Row{
			Timestamp: timestamp,
			Entity:    uint64(entity),
			Component: component.Name(),
			Attribute: name,
			Value:     value,
		})
	}
	return rows, nil
}

type nopRecorder struct{}

// Nop returns a recorder that drops everything. It is the default so a world
// never has to check whether recording is configured.
func Nop() Recorder {
	return nopRecorder{}
}

func (nopRecorder) RecordComponent(float64, store.EntityID, store.Component) error { return nil }

func (nopRecorder) Close() error { return nil }
