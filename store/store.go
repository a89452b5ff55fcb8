package store

import (
	"slices"
	"sort"

	"github.com/rotisserie/eris"
)

// EntityID is a unique identifier for an entity. IDs are allocated from a
// monotonic counter owned by the Store and are never reused, so a stale ID
// held by a continuation can always be distinguished from a live one.
type EntityID uint64

// Store holds all entity and component data. It maintains two mappings that
// must stay consistent after every mutation:
//
//   - entities: entity ID -> component name -> component value
//   - index:    component name -> set of entity IDs holding that component
//
// An entity appears in the index set for a component name iff its component
// map contains that name. All operations are synchronous; the Store is only
// ever mutated from the single scheduler goroutine during a system update or
// a continuation resume, so no locking is performed.
type Store struct {
	nextID   EntityID
	entities map[EntityID]map[string]Component
	index    map[string]map[EntityID]struct{}
}

// New creates an empty Store. The entity ID counter is owned by the instance
// and resets only on construction.
func New() *Store {
	return &Store{
		nextID:   0,
		entities: make(map[EntityID]map[string]Component),
		index:    make(map[string]map[EntityID]struct{}),
	}
}

// CreateEntity allocates a fresh entity ID and attaches the given components.
// Both mappings are updated before the method returns, so no caller can
// observe the entity with a partial index.
func (s *Store) CreateEntity(components ...Component) (EntityID, error) {
	for _, comp := range components {
		if comp.Name() == "" {
			return 0, eris.New("component name cannot be empty")
		}
	}

	id := s.nextID
	s.nextID++

	s.entities[id] = make(map[string]Component, len(components))
	for _, comp := range components {
		s.entities[id][comp.Name()] = comp
		s.addToIndex(comp.Name(), id)
	}
	return id, nil
}

// RemoveEntity deletes an entity and all its components. Every index entry
// for the entity is dropped; returns ErrEntityNotFound for an unknown ID.
func (s *Store) RemoveEntity(id EntityID) error {
	comps, ok := s.entities[id]
	if !ok {
		return ErrEntityNotFound
	}
	for name := range comps {
		s.removeFromIndex(name, id)
	}
	delete(s.entities, id)
	return nil
}

// Contains reports whether the entity exists.
func (s *Store) Contains(id EntityID) bool {
	_, ok := s.entities[id]
	return ok
}

// SetComponent attaches a component to an entity. If the entity already holds
// a component of the same name, the value is silently replaced; the index is
// only touched when the component is new to the entity.
func (s *Store) SetComponent(id EntityID, component Component) error {
	comps, ok := s.entities[id]
	if !ok {
		return ErrEntityNotFound
	}
	name := component.Name()
	if _, exists := comps[name]; !exists {
		s.addToIndex(name, id)
	}
	comps[name] = component
	return nil
}

// GetComponent returns the component with the given name held by the entity.
func (s *Store) GetComponent(id EntityID, name string) (Component, error) {
	comps, ok := s.entities[id]
	if !ok {
		return nil, ErrEntityNotFound
	}
	comp, ok := comps[name]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "component %q", name)
	}
	return comp, nil
}

// RemoveComponent detaches the named component from the entity. Detaching a
// component the entity does not hold is an error, not a no-op.
func (s *Store) RemoveComponent(id EntityID, name string) error {
	comps, ok := s.entities[id]
	if !ok {
		return ErrEntityNotFound
	}
	if _, ok := comps[name]; !ok {
		return eris.Wrapf(ErrComponentNotFound, "component %q", name)
	}
	delete(comps, name)
	s.removeFromIndex(name, id)
	return nil
}

// Entity returns a View of the entity, scoped for repeated component access
// without further entity lookups.
func (s *Store) Entity(id EntityID) (*View, error) {
	comps, ok := s.entities[id]
	if !ok {
		return nil, ErrEntityNotFound
	}
	return &View{store: s, id: id, components: comps}, nil
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return len(s.entities)
}

// Each calls fn once for every entity that holds all the named components,
// in ascending entity ID order. Iteration stops early if fn returns false.
// If any named component has no entities at all, fn is never called. With no
// names given, every entity matches.
//
// The candidate set is materialized up front, so fn may mutate the store;
// entities created during iteration are not visited.
func (s *Store) Each(names []string, fn func(id EntityID, view *View) bool) {
	for _, id := range s.intersect(names) {
		// The entity may have been destroyed by an earlier callback.
		comps, ok := s.entities[id]
		if !ok {
			continue
		}
		if !fn(id, &View{store: s, id: id, components: comps}) {
			return
		}
	}
}

// EachEntity calls fn once for every entity in the store, in ascending entity
// ID order. Used by the recorder to take a per-iteration snapshot; it must
// not be called concurrently with mutation.
func (s *Store) EachEntity(fn func(id EntityID, view *View) bool) {
	s.Each(nil, fn)
}

// intersect resolves the index intersection for the given component names,
// smallest set first, and returns the matching IDs in ascending order.
func (s *Store) intersect(names []string) []EntityID {
	if len(names) == 0 {
		ids := make([]EntityID, 0, len(s.entities))
		for id := range s.entities {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return ids
	}

	sets := make([]map[EntityID]struct{}, 0, len(names))
	for _, name := range names {
		set, ok := s.index[name]
		if !ok {
			// A component type with no entities registered at all.
			return nil
		}
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool { return len(sets[i]) < len(sets[j]) })

	ids := make([]EntityID, 0, len(sets[0]))
outer:
	for id := range sets[0] {
		for _, set := range sets[1:] {
			if _, ok := set[id]; !ok {
				continue outer
			}
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) addToIndex(name string, id EntityID) {
	set, ok := s.index[name]
	if !ok {
		set = make(map[EntityID]struct{})
		s.index[name] = set
	}
	set[id] = struct{}{}
}

func (s *Store) removeFromIndex(name string, id EntityID) {
	set, ok := s.index[name]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(s.index, name)
	}
}
