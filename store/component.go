package store

// Component is the interface that all components must implement.
// Components are pure data containers attached to entities; an entity holds at
// most one component per Name.
type Component interface {
	// Name returns a unique string identifier for the component type.
	// This should be consistent across program executions.
	Name() string
}
