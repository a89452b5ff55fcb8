package filter

import (
	"github.com/tidewater-sim/eventide/store"
)

type all struct {
}

func All() ComponentFilter {
	return &all{}
}

func (f *all) MatchesComponents(_ []store.Component) bool {
	return true
}
