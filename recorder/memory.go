package recorder

import (
	"github.com/tidewater-sim/eventide/store"
)

// MemoryRecorder keeps rows in a slice. It is meant for tests and for small
// runs that are inspected in-process.
type MemoryRecorder struct {
	rows []Row
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) RecordComponent(timestamp float64, entity store.EntityID, component store.Component) error {
	rows, err := Flatten(timestamp, entity, component)
	if err != nil {
		return err
	}
	r.rows = append(r.rows, rows...)
	return nil
}

// Rows returns every recorded row in recording order.
func (r *MemoryRecorder) Rows() []Row {
	return r.rows
}

func (r *MemoryRecorder) Close() error {
	return nil
}
