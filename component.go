package eventide

import (
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"

	"github.com/tidewater-sim/eventide/codec"
	"github.com/tidewater-sim/eventide/store"
	"github.com/tidewater-sim/eventide/worldstage"
)

// Component is anything that can be attached to an entity. The Name must be
// unique across all component types registered on a world.
type Component = store.Component

var ErrComponentNotRegistered = eris.New("component not registered")

// componentMetadata is what RegisterComponent captures about a type: a stable
// numeric ID in registration order, the JSON schema of the type, and a zero
// value used to resolve names in CQL queries.
type componentMetadata struct {
	name   string
	id     int
	schema []byte
	zero   store.Component
}

func (m componentMetadata) Name() string { return m.name }

func (m componentMetadata) ID() int { return m.id }

type componentManager struct {
	registered []componentMetadata
	byName     map[string]componentMetadata
}

func newComponentManager() *componentManager {
	return &componentManager{
		byName: map[string]componentMetadata{},
	}
}

func (cm *componentManager) register(zero store.Component, schema []byte) error {
	name := zero.Name()
	if name == "" {
		return eris.New("component name cannot be empty")
	}
	if existing, ok := cm.byName[name]; ok {
		// Re-registering the same shape is a no-op; a different shape under
		// the same name is a conflict.
		if err := isSchemaValid(existing.schema, schema); err != nil {
			return eris.Wrapf(err, "component %q is already registered with a different shape", name)
		}
		return nil
	}
	meta := componentMetadata{
		name:   name,
		id:     len(cm.registered),
		schema: schema,
		zero:   zero,
	}
	cm.registered = append(cm.registered, meta)
	cm.byName[name] = meta
	return nil
}

func (cm *componentManager) getByName(name string) (componentMetadata, error) {
	meta, ok := cm.byName[name]
	if !ok {
		return componentMetadata{}, eris.Wrapf(ErrComponentNotRegistered, "component %q", name)
	}
	return meta, nil
}

func (cm *componentManager) isRegistered(name string) bool {
	_, ok := cm.byName[name]
	return ok
}

// RegisterComponent makes the component type T usable on the given world.
// Components must be registered before the world runs.
func RegisterComponent[T store.Component](w *World) error {
	if w.stage.Current() != worldstage.Init {
		return eris.New("cannot register components after the world has started")
	}
	var zero T
	schema, err := serializeComponentSchema(zero)
	if err != nil {
		return err
	}
	return w.componentManager.register(zero, schema)
}

func serializeComponentSchema(component store.Component) ([]byte, error) {
	componentSchema := jsonschema.Reflect(component)
	schema, err := codec.Encode(componentSchema)
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}
	return schema, nil
}

func isSchemaValid(jsonSchemaBytes []byte, otherJSONSchemaBytes []byte) error {
	patch, err := jsondiff.CompareJSON(jsonSchemaBytes, otherJSONSchemaBytes)
	if err != nil {
		return eris.Wrap(err, "failed to compare component schemas")
	}
	if len(patch) > 0 {
		return eris.New("component schemas do not match")
	}
	return nil
}
