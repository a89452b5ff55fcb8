// Package eventide couples an entity-component store with a cooperative
// discrete-event scheduler. Systems run synchronously once per iteration and
// hand back wake conditions; the world sleeps on their disjunction and
// advances the virtual clock straight to the next wake, so idle spans cost
// nothing. A run ends when no system has anything pending or when the time
// budget is exhausted.
package eventide

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tidewater-sim/eventide/des"
	"github.com/tidewater-sim/eventide/log"
	"github.com/tidewater-sim/eventide/recorder"
	"github.com/tidewater-sim/eventide/statsd"
	"github.com/tidewater-sim/eventide/store"
	"github.com/tidewater-sim/eventide/worldstage"
)

// World owns one simulation: the component store, the registered systems, the
// virtual clock, and the recorder. A World runs at most once; Run drives it
// until nothing is pending or the time budget is spent.
type World struct {
	config    WorldConfig
	namespace string
	runID     string

	env   *des.Environment
	store *store.Store
	stage *worldstage.Manager

	systemManager    *systemManager
	componentManager *componentManager
	recorder         recorder.Recorder

	iteration uint64

	Logger zerolog.Logger
}

// NewWorld creates a World from the environment config and the given options.
func NewWorld(opts ...WorldOption) (*World, error) {
	cfg, err := getWorldConfig()
	if err != nil {
		return nil, err
	}
	// Already validated by getWorldConfig.
	level, _ := zerolog.ParseLevel(cfg.EventideLogLevel)
	zerolog.SetGlobalLevel(level)

	w := &World{
		config:           cfg,
		namespace:        cfg.EventideNamespace,
		runID:            uuid.NewString(),
		env:              des.NewEnvironment(),
		store:            store.New(),
		stage:            worldstage.NewManager(),
		systemManager:    newSystemManager(),
		componentManager: newComponentManager(),
		recorder:         recorder.Nop(),
	}
	w.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("namespace", w.namespace).
		Logger()
	if cfg.EventideLogPretty {
		w.Logger = w.Logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	for _, opt := range opts {
		opt(w)
	}

	if cfg.EventideStatsdAddress != "" {
		tags := []string{"namespace:" + w.namespace}
		if err := statsd.Init(cfg.EventideStatsdAddress, tags); err != nil {
			return nil, eris.Wrap(err, "failed to init statsd")
		}
	} else {
		w.Logger.Debug().Msg("statsd is disabled, no agent address was set")
	}

	return w, nil
}

// RegisterSystems registers the systems in update order. Systems cannot be
// added once the world has started.
func (w *World) RegisterSystems(systems ...System) error {
	if w.stage.Current() != worldstage.Init {
		return eris.New("cannot register systems after the world has started")
	}
	return w.systemManager.registerSystems(systems...)
}

func (w *World) Namespace() string { return w.namespace }

func (w *World) RunID() string { return w.runID }

// Now returns the current virtual time.
func (w *World) Now() float64 { return w.env.Now() }

// CurrentIteration returns the number of completed iterations.
func (w *World) CurrentIteration() uint64 { return w.iteration }

// Stage returns the world's lifecycle stage.
func (w *World) Stage() worldstage.Stage { return w.stage.Current() }

// GetRegisteredComponents implements log.Loggable.
func (w *World) GetRegisteredComponents() []log.ComponentInfo {
	infos := make([]log.ComponentInfo, 0, len(w.componentManager.registered))
	for _, meta := range w.componentManager.registered {
		infos = append(infos, meta)
	}
	return infos
}

// GetRegisteredSystemNames implements log.Loggable.
func (w *World) GetRegisteredSystemNames() []string {
	return w.systemManager.getRegisteredSystemNames()
}

// Run iterates the world until no wake conditions remain or virtual time
// reaches until, whichever comes first. A world can only be run once; calling
// Run on a world that has started is an error. The recorder is closed when
// the run ends.
func (w *World) Run(until float64) error {
	if ok := w.stage.CompareAndSwap(worldstage.Init, worldstage.Running); !ok {
		return eris.Errorf("cannot run a world in stage %s", w.stage.Current())
	}
	if err := w.validateSystemRequirements(); err != nil {
		w.stage.Store(worldstage.Terminated)
		return err
	}
	log.World(&w.Logger, w, w.runID, w.namespace)

	if w.config.EventideTraceEnabled {
		tracer.Start(tracer.WithServiceName("eventide"))
		defer tracer.Stop()
	}

	w.env.Process(w.iterate)
	err := w.env.Run(until)

	// Idle or not, the run is over.
	w.stage.Store(worldstage.Terminated)
	if closeErr := w.recorder.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return eris.Wrap(err, "world run aborted")
	}
	w.Logger.Info().
		Float64("timestamp", w.env.Now()).
		Uint64("iterations", w.iteration).
		Msg("run complete")
	return nil
}

func (w *World) validateSystemRequirements() error {
	for _, sys := range w.systemManager.registeredSystems {
		for _, comp := range sys.System.RequiredComponents() {
			if !w.componentManager.isRegistered(comp.Name()) {
				return eris.Wrapf(ErrComponentNotRegistered, "system %s requires component %q", sys.Name, comp.Name())
			}
		}
	}
	return nil
}

// iterate is one pass of the world loop: run every system, snapshot the store,
// then either go idle or sleep on the disjunction of the collected wake
// conditions. The disjunction fires only after every continuation scheduled at
// the wake time has resumed, so an iteration always observes a settled store.
func (w *World) iterate() error {
	startTime := time.Now()
	span := tracer.StartSpan("eventide.span.iteration")
	defer span.Finish()

	log.Iteration(&w.Logger, w.iteration, w.env.Now())
	wCtx := newWorldContext(w)

	events, err := w.systemManager.runSystems(wCtx)
	if err != nil {
		return err
	}

	recordStart := time.Now()
	if err := w.recordSnapshot(); err != nil {
		return eris.Wrap(err, "failed to record snapshot")
	}
	statsd.EmitIterationStat(recordStart, "record")

	w.iteration++
	statsd.EmitIterationStat(startTime, "full_iteration")

	if len(events) == 0 {
		w.stage.CompareAndSwap(worldstage.Running, worldstage.Idle)
		w.Logger.Debug().Msg("no wake conditions pending, world is idle")
		return nil
	}
	w.env.AnyOf(events...).OnFire(w.iterate)
	return nil
}

// recordSnapshot writes every component of every entity at the current
// virtual time. Entities and their components come out in sorted order, so
// two identical runs record identical rows.
func (w *World) recordSnapshot() error {
	now := w.env.Now()
	var err error
	w.store.EachEntity(func(id store.EntityID, view *store.View) bool {
		for _, comp := range view.Components() {
			if recErr := w.recorder.RecordComponent(now, id, comp); recErr != nil {
				err = recErr
				return false
			}
		}
		return true
	})
	return err
}
