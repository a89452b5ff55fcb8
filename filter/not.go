package filter

import (
	"github.com/tidewater-sim/eventide/store"
)

func Not(filter ComponentFilter) ComponentFilter {
	return &not{filter: filter}
}

type not struct {
	filter ComponentFilter
}

func (f *not) MatchesComponents(components []store.Component) bool {
	return !f.filter.MatchesComponents(components)
}
