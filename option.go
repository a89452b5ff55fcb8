package eventide

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/tidewater-sim/eventide/recorder"
	"github.com/tidewater-sim/eventide/store"
)

// WorldOption configures a World during NewWorld. Options are applied after
// the environment config is loaded, so they win over it.
type WorldOption func(*World)

// WithRecorder sets the recorder that receives per-iteration snapshots.
func WithRecorder(rec recorder.Recorder) WorldOption {
	return func(w *World) {
		w.recorder = rec
	}
}

// WithRedisRecorder records snapshots to the redis instance named in the
// world config, under a key scoped to this run.
func WithRedisRecorder() WorldOption {
	return func(w *World) {
		w.recorder = recorder.NewRedisRecorder(recorder.Options{
			Addr:     w.config.RedisAddress,
			Password: w.config.RedisPassword,
		}, w.namespace, w.runID)
	}
}

// WithCustomLogger replaces the world's logger.
func WithCustomLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.Logger = logger
	}
}

// WithPrettyLog switches the logger to human-readable console output.
func WithPrettyLog() WorldOption {
	return func(w *World) {
		w.Logger = w.Logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// WithStore runs the world against a pre-populated component store.
func WithStore(s *store.Store) WorldOption {
	return func(w *World) {
		w.store = s
	}
}
