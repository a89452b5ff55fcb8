package filter

import (
	"github.com/tidewater-sim/eventide/store"
)

// ComponentFilter is a filter that selects entities based on the set of
// component types they hold.
type ComponentFilter interface {
	// MatchesComponents returns true if an entity holding exactly the given
	// components matches the filter.
	MatchesComponents(components []store.Component) bool
}

// ComponentWrapper wraps a Component type for filtering purposes.
type ComponentWrapper struct {
	Component store.Component
}

// Component returns a ComponentWrapper for the given component type T.
func Component[T store.Component]() ComponentWrapper {
	var x T
	return ComponentWrapper{
		Component: x,
	}
}
