package filter

import (
	"github.com/tidewater-sim/eventide/store"
)

type exact struct {
	components []store.Component
}

// Exact matches entities that hold exactly the components specified, no more.
func Exact(components ...store.Component) ComponentFilter {
	return exact{
		components: components,
	}
}

func (f exact) MatchesComponents(components []store.Component) bool {
	if len(components) != len(f.components) {
		return false
	}
	for _, componentType := range components {
		if !MatchComponent(f.components, componentType) {
			return false
		}
	}
	return true
}
