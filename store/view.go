package store

import (
	"slices"

	"github.com/rotisserie/eris"
)

// View is a handle on a single entity's component map. It lets a system read
// and mutate that entity's components without re-resolving the entity on every
// call. A View is only valid while its entity is alive; destroying the entity
// invalidates it.
type View struct {
	store      *Store
	id         EntityID
	components map[string]Component
}

// ID returns the entity this view is scoped to.
func (v *View) ID() EntityID {
	return v.id
}

// Get returns the named component.
func (v *View) Get(name string) (Component, error) {
	comp, ok := v.components[name]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "component %q", name)
	}
	return comp, nil
}

// Has reports whether the entity holds the named component.
func (v *View) Has(name string) bool {
	_, ok := v.components[name]
	return ok
}

// Set attaches the component to the entity, overwriting any existing value of
// the same type. The store index is kept in sync.
func (v *View) Set(component Component) {
	name := component.Name()
	if _, exists := v.components[name]; !exists {
		v.store.addToIndex(name, v.id)
	}
	v.components[name] = component
}

// Remove detaches the named component. Detaching an absent component is an
// error.
func (v *View) Remove(name string) error {
	if _, ok := v.components[name]; !ok {
		return eris.Wrapf(ErrComponentNotFound, "component %q", name)
	}
	delete(v.components, name)
	v.store.removeFromIndex(name, v.id)
	return nil
}

// Components returns the entity's components sorted by name. The sort keeps
// snapshot output deterministic across runs.
func (v *View) Components() []Component {
	names := make([]string, 0, len(v.components))
	for name := range v.components {
		names = append(names, name)
	}
	slices.Sort(names)

	comps := make([]Component, 0, len(names))
	for _, name := range names {
		comps = append(comps, v.components[name])
	}
	return comps
}

// Get returns the component of type T held by the entity behind the view.
func Get[T Component](v *View) (T, error) {
	var zero T
	comp, err := v.Get(zero.Name())
	if err != nil {
		return zero, err
	}
	t, ok := comp.(T)
	if !ok {
		return zero, eris.Errorf("component %q holds %T, not %T", zero.Name(), comp, zero)
	}
	return t, nil
}

// Has reports whether the entity behind the view holds a component of type T.
func Has[T Component](v *View) bool {
	var zero T
	return v.Has(zero.Name())
}

// Remove detaches the component of type T from the entity behind the view.
func Remove[T Component](v *View) error {
	var zero T
	return v.Remove(zero.Name())
}
