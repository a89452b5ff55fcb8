package eventide

import (
	"github.com/rotisserie/eris"

	"github.com/tidewater-sim/eventide/store"
)

// EntityID is a unique identifier for an entity. IDs are never reused within
// a world.
type EntityID = store.EntityID

// Create creates a single entity holding the given components. Every
// component must have been registered on the world.
func Create(wCtx WorldContext, components ...store.Component) (EntityID, error) {
	w := wCtx.world
	for _, comp := range components {
		if !w.componentManager.isRegistered(comp.Name()) {
			return 0, eris.Wrapf(ErrComponentNotRegistered, "component %q", comp.Name())
		}
	}
	id, err := w.store.CreateEntity(components...)
	if err != nil {
		return 0, err
	}
	wCtx.Logger().Debug().
		Uint64("entity_id", uint64(id)).
		Int("total_components", len(components)).
		Msg("created entity")
	return id, nil
}

// Remove destroys the entity and detaches all of its components. Pending
// continuations that reference the entity are not cancelled; their resume
// logic is expected to tolerate a missing entity.
func Remove(wCtx WorldContext, id EntityID) error {
	return wCtx.world.store.RemoveEntity(id)
}

// Exists reports whether the entity is still alive.
func Exists(wCtx WorldContext, id EntityID) bool {
	return wCtx.world.store.Contains(id)
}

// GetComponent returns the component of type T held by the given entity.
func GetComponent[T store.Component](wCtx WorldContext, id EntityID) (T, error) {
	var zero T
	comp, err := wCtx.world.store.GetComponent(id, zero.Name())
	if err != nil {
		return zero, err
	}
	t, ok := comp.(T)
	if !ok {
		return zero, eris.Errorf("component %q holds %T, not %T", zero.Name(), comp, zero)
	}
	return t, nil
}

// SetComponent attaches the component to the entity, silently overwriting any
// existing value of the same type.
func SetComponent[T store.Component](wCtx WorldContext, id EntityID, component T) error {
	w := wCtx.world
	if !w.componentManager.isRegistered(component.Name()) {
		return eris.Wrapf(ErrComponentNotRegistered, "component %q", component.Name())
	}
	return w.store.SetComponent(id, component)
}

// UpdateComponent reads the component of type T, applies fn, and writes the
// result back.
func UpdateComponent[T store.Component](wCtx WorldContext, id EntityID, fn func(T) T) error {
	comp, err := GetComponent[T](wCtx, id)
	if err != nil {
		return err
	}
	return SetComponent(wCtx, id, fn(comp))
}

// RemoveComponentFrom detaches the component of type T from the entity.
// Detaching a component the entity does not hold is an error.
func RemoveComponentFrom[T store.Component](wCtx WorldContext, id EntityID) error {
	var zero T
	return wCtx.world.store.RemoveComponent(id, zero.Name())
}
