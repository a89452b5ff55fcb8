package eventide

import (
	"regexp"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	DefaultNamespace    = "world-1"
	DefaultLogLevel     = "info"
	DefaultRedisAddress = "localhost:6379"
)

var defaultConfig = WorldConfig{
	EventideNamespace: DefaultNamespace,
	EventideLogLevel:  DefaultLogLevel,
	RedisAddress:      DefaultRedisAddress,
}

var namespaceRegexp = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// WorldConfig is loaded from the environment when a world is created.
type WorldConfig struct {
	EventideNamespace     string `config:"EVENTIDE_NAMESPACE"`
	EventideLogLevel      string `config:"EVENTIDE_LOG_LEVEL"`
	EventideLogPretty     bool   `config:"EVENTIDE_LOG_PRETTY"`
	EventideTraceEnabled  bool   `config:"EVENTIDE_TRACE_ENABLED"`
	EventideStatsdAddress string `config:"EVENTIDE_STATSD_ADDRESS"`
	RedisAddress          string `config:"REDIS_ADDRESS"`
	RedisPassword         string `config:"REDIS_PASSWORD"`
}

func getWorldConfig() (WorldConfig, error) {
	cfg := defaultConfig
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load config from environment")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate rejects configs the world cannot start with.
func (w *WorldConfig) Validate() error {
	if !namespaceRegexp.MatchString(w.EventideNamespace) {
		return eris.Errorf("namespace %q may only contain alphanumerics, dashes, and underscores", w.EventideNamespace)
	}
	if _, err := zerolog.ParseLevel(w.EventideLogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", w.EventideLogLevel)
	}
	return nil
}
