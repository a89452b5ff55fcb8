package filter

import (
	"github.com/tidewater-sim/eventide/store"
)

type contains struct {
	components []store.Component
}

// Contains matches entities that hold all the components specified.
func Contains(components ...store.Component) ComponentFilter {
	return &contains{components: components}
}

func (f *contains) MatchesComponents(components []store.Component) bool {
	for _, componentType := range f.components {
		if !MatchComponent(components, componentType) {
			return false
		}
	}
	return true
}

// ComponentNames returns the names of the components a Contains filter
// requires, or nil if the filter is not a plain Contains. The search layer
// uses this to answer contains-queries through the store's type index instead
// of a full scan.
func ComponentNames(f ComponentFilter) []string {
	c, ok := f.(*contains)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(c.components))
	for _, comp := range c.components {
		names = append(names, comp.Name())
	}
	return names
}
