// Package worldstage tracks the lifecycle stage of a world run.
package worldstage

import (
	"sync/atomic"
)

type Stage string

const (
	Init       Stage = "Init"       // The default stage of a world
	Running    Stage = "Running"    // World is moved to this stage when Run() starts iterating
	Idle       Stage = "Idle"       // World is moved to this stage when an iteration yields no wake conditions
	Terminated Stage = "Terminated" // World is moved to this stage when the run is over, idle or not
)

type Manager struct {
	current *atomic.Value
}

func NewManager() *Manager {
	m := &Manager{
		current: &atomic.Value{},
	}
	m.Store(Init)
	return m
}

func (m *Manager) CompareAndSwap(oldStage, newStage Stage) (swapped bool) {
	return m.current.CompareAndSwap(oldStage, newStage)
}

func (m *Manager) Current() Stage {
	return m.current.Load().(Stage)
}

func (m *Manager) Store(val Stage) {
	m.current.Store(val)
}

func (m *Manager) Swap(newStage Stage) (oldStage Stage) {
	return m.current.Swap(newStage).(Stage)
}
