package eventide

import (
	"github.com/rs/zerolog"

	"github.com/tidewater-sim/eventide/des"
)

// WorldContext is the handle a system receives for one update pass. It scopes
// entity and component access to the world, exposes the virtual clock, and
// carries a logger tagged with the running system's name.
type WorldContext struct {
	world  *World
	logger *zerolog.Logger
}

// NewWorldContext returns a context scoped to the world. Systems receive one
// per update pass; this constructor is for setup code that seeds entities
// before the world runs.
func NewWorldContext(world *World) WorldContext {
	return newWorldContext(world)
}

func newWorldContext(world *World) WorldContext {
	return WorldContext{
		world:  world,
		logger: &world.Logger,
	}
}

func (wCtx WorldContext) withLogger(logger zerolog.Logger) WorldContext {
	wCtx.logger = &logger
	return wCtx
}

// Now returns the current virtual time.
func (wCtx WorldContext) Now() float64 {
	return wCtx.world.env.Now()
}

// CurrentIteration returns the number of completed world iterations.
func (wCtx WorldContext) CurrentIteration() uint64 {
	return wCtx.world.iteration
}

// Logger returns the logger for the current system.
func (wCtx WorldContext) Logger() *zerolog.Logger {
	return wCtx.logger
}

// Timeout returns an event that fires after the given virtual delay. Systems
// return it from Update to be woken again once the delay elapses.
func (wCtx WorldContext) Timeout(delay float64) (*des.Event, error) {
	return wCtx.world.env.Timeout(delay)
}

// Defer schedules resume to run once after the given virtual delay and
// returns the event that fires when it completes. The entities resume touches
// may be destroyed before it runs; resume must check for that.
func (wCtx WorldContext) Defer(delay float64, resume func(wCtx WorldContext) error) (*des.Event, error) {
	return wCtx.world.env.Defer(delay, func() error {
		return resume(wCtx)
	})
}
