package store

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when an operation references an unknown or
	// already-destroyed entity.
	ErrEntityNotFound = eris.New("entity does not exist")

	// ErrComponentNotFound is returned by Get/Remove when the entity does not
	// hold a component of the requested type. Note that attaching a component
	// the entity already holds is NOT an error; the old value is overwritten.
	ErrComponentNotFound = eris.New("component not on entity")
)
