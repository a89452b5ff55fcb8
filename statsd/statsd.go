// Package statsd wraps a datadog statsd client. Until Init is called (or if
// no agent address is configured) every metric goes to a no-op client, so the
// engine can emit stats unconditionally.
package statsd

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
)

var client statsd.ClientInterface = &statsd.NoOpClient{}

// Client returns the current statsd client.
func Client() statsd.ClientInterface {
	return client
}

// EmitIterationStat emits the duration of one stage of a world iteration.
func EmitIterationStat(start time.Time, stage string) {
	duration := time.Since(start)
	tags := []string{"stage:" + stage}
	// This is a no-op if no client has been configured.
	_ = Client().Timing("iteration", duration, tags, 1)
}

// Init connects the package to a statsd agent. The given tags are attached to
// every metric.
func Init(statsdAddress string, tags []string) error {
	if statsdAddress == "" {
		return eris.New("statsd address must not be empty")
	}
	newClient, err := statsd.New(
		statsdAddress,
		statsd.WithTags(tags),
		statsd.WithNamespace("eventide"),
	)
	if err != nil {
		return eris.Wrap(err, "failed to create statsd client")
	}
	client = newClient
	return nil
}
