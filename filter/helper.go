package filter

import (
	"github.com/tidewater-sim/eventide/store"
)

// MatchComponent returns true if the given slice of components contains the
// given component. Components are the same if they have the same Name.
func MatchComponent(
	components []store.Component,
	cType store.Component,
) bool {
	for _, c := range components {
		if cType.Name() == c.Name() {
			return true
		}
	}
	return false
}
