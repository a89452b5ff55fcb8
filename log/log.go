// Package log contains zerolog helpers for structured engine logging.
package log

import (
	"github.com/rs/zerolog"
)

// ComponentInfo is the piece of component metadata the logger cares about.
type ComponentInfo interface {
	ID() int
	Name() string
}

// Loggable is implemented by the world so this package can enumerate what was
// registered without importing the engine package.
type Loggable interface {
	GetRegisteredComponents() []ComponentInfo
	GetRegisteredSystemNames() []string
}

func loadComponentIntoArrayLogger(component ComponentInfo, arrayLogger *zerolog.Array) *zerolog.Array {
	zeroLoggerEvent := zerolog.Dict().
		Str("component_name", component.Name()).
		Int("component_id", component.ID())
	return arrayLogger.Dict(zeroLoggerEvent)
}

func loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	zeroLoggerEvent.Int("total_components", len(target.GetRegisteredComponents()))
	arrayLogger := zerolog.Arr()
	for _, component := range target.GetRegisteredComponents() {
		arrayLogger = loadComponentIntoArrayLogger(component, arrayLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

func loadSystemIntoArrayLogger(name string, arrayLogger *zerolog.Array) *zerolog.Array {
	return arrayLogger.Str(name)
}

func loadSystemsToEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	systems := target.GetRegisteredSystemNames()
	zeroLoggerEvent.Int("total_systems", len(systems))
	arrayLogger := zerolog.Arr()
	for _, system := range systems {
		arrayLogger = loadSystemIntoArrayLogger(system, arrayLogger)
	}
	return zeroLoggerEvent.Array("systems", arrayLogger)
}

// World logs everything registered on the world plus run metadata.
func World(logger *zerolog.Logger, target Loggable, runID string, namespace string) {
	zeroLoggerEvent := logger.Info().
		Str("run_id", runID).
		Str("namespace", namespace)
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, target)
	zeroLoggerEvent = loadSystemsToEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// Iteration logs one pass of the world loop.
func Iteration(logger *zerolog.Logger, iteration uint64, timestamp float64) {
	logger.Info().
		Uint64("iteration", iteration).
		Float64("timestamp", timestamp).
		Send()
}

// CreateSystemLogger returns a sub-logger scoped to one system.
func CreateSystemLogger(logger *zerolog.Logger, systemName string) zerolog.Logger {
	return logger.With().
		Str("system", systemName).
		Logger()
}
