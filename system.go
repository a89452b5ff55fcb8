package eventide

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/tidewater-sim/eventide/des"
	"github.com/tidewater-sim/eventide/log"
)

const noActiveSystemName = "no_system"

// System is the unit of simulation logic. Update runs once per world
// iteration, synchronously, and returns the wake conditions the system wants
// the world to sleep on. An empty result means the system has nothing
// pending; if every system returns an empty result the world goes idle.
//
// RequiredComponents declares the component types Update reads or writes.
// The world verifies they are registered before the first iteration.
type System interface {
	RequiredComponents() []Component
	Update(wCtx WorldContext) ([]*des.Event, error)
}

type registeredSystem struct {
	Name   string
	System System
}

type systemManager struct {
	registeredSystems []registeredSystem
	currentSystem     string
}

func newSystemManager() *systemManager {
	return &systemManager{
		currentSystem: noActiveSystemName,
	}
}

// registerSystems registers the systems in update order. Duplicate system
// types are rejected.
func (m *systemManager) registerSystems(systems ...System) error {
	for _, sys := range systems {
		name := systemName(sys)
		for _, existing := range m.registeredSystems {
			if existing.Name == name {
				return eris.Errorf("system %q is already registered", name)
			}
		}
		m.registeredSystems = append(m.registeredSystems, registeredSystem{
			Name:   name,
			System: sys,
		})
	}
	return nil
}

// runSystems runs every registered system in registration order and collects
// their wake conditions. The first system error aborts the pass.
func (m *systemManager) runSystems(wCtx WorldContext) ([]*des.Event, error) {
	var events []*des.Event
	for _, sys := range m.registeredSystems {
		m.currentSystem = sys.Name
		sysLogger := log.CreateSystemLogger(wCtx.Logger(), sys.Name)
		sysEvents, err := sys.System.Update(wCtx.withLogger(sysLogger))
		if err != nil {
			m.currentSystem = noActiveSystemName
			return nil, eris.Wrapf(err, "system %s update failed", sys.Name)
		}
		events = append(events, sysEvents...)
	}
	m.currentSystem = noActiveSystemName
	return events, nil
}

func (m *systemManager) getRegisteredSystemNames() []string {
	names := make([]string, 0, len(m.registeredSystems))
	for _, sys := range m.registeredSystems {
		names = append(names, sys.Name)
	}
	return names
}

func (m *systemManager) getCurrentSystem() string {
	return m.currentSystem
}

func systemName(sys System) string {
	t := reflect.TypeOf(sys)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
