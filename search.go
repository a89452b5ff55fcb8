package eventide

import (
	"github.com/rotisserie/eris"

	"github.com/tidewater-sim/eventide/cql"
	"github.com/tidewater-sim/eventide/filter"
	"github.com/tidewater-sim/eventide/store"
)

// Search finds entities by the set of component types they hold. Results are
// always visited in ascending entity ID order, so a search drives the same
// entities in the same order on every run.
type Search struct {
	filter filter.ComponentFilter
}

// SearchCallBackFn is invoked per matching entity; returning false stops the
// search early.
type SearchCallBackFn func(EntityID) bool

// NewSearch creates a Search from a component filter.
func NewSearch(componentFilter filter.ComponentFilter) *Search {
	return &Search{filter: componentFilter}
}

// Each calls the callback for every matching entity. Contains filters are
// answered through the store's type index; other filters fall back to a full
// scan.
func (s *Search) Each(wCtx WorldContext, callback SearchCallBackFn) error {
	if names := filter.ComponentNames(s.filter); names != nil {
		wCtx.world.store.Each(names, func(id store.EntityID, _ *store.View) bool {
			return callback(id)
		})
		return nil
	}
	wCtx.world.store.EachEntity(func(id store.EntityID, view *store.View) bool {
		if !s.filter.MatchesComponents(view.Components()) {
			return true
		}
		return callback(id)
	})
	return nil
}

// Count returns the number of matching entities.
func (s *Search) Count(wCtx WorldContext) (int, error) {
	count := 0
	err := s.Each(wCtx, func(EntityID) bool {
		count++
		return true
	})
	return count, err
}

// First returns the lowest-ID matching entity. It is an error if nothing
// matches.
func (s *Search) First(wCtx WorldContext) (EntityID, error) {
	found := false
	var first EntityID
	err := s.Each(wCtx, func(id EntityID) bool {
		first = id
		found = true
		return false
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, eris.New("no entity matches the search")
	}
	return first, nil
}

// Collect returns every matching entity ID in ascending order.
func (s *Search) Collect(wCtx WorldContext) ([]EntityID, error) {
	var ids []EntityID
	err := s.Each(wCtx, func(id EntityID) bool {
		ids = append(ids, id)
		return true
	})
	return ids, err
}

// SearchByCQL builds a Search from a CQL expression. Component names in the
// expression resolve against the world's registered components.
func (w *World) SearchByCQL(cqlText string) (*Search, error) {
	componentFilter, err := cql.Parse(cqlText, func(name string) (store.Component, error) {
		meta, err := w.componentManager.getByName(name)
		if err != nil {
			return nil, err
		}
		return meta.zero, nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse CQL %q", cqlText)
	}
	return NewSearch(componentFilter), nil
}
