package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultAddr is where the admin API listens unless configured otherwise.
const DefaultAddr = "127.0.0.1:7171"

// Settings are process-level options read from the environment. CLI flags
// take precedence over them.
type Settings struct {
	ConfigPath    string        `env:"TIMEGATE_CONFIG"`
	Addr          string        `env:"TIMEGATE_ADDR" envDefault:"127.0.0.1:7171"`
	NATSURL       string        `env:"TIMEGATE_NATS_URL"`
	NATSPrefix    string        `env:"TIMEGATE_NATS_PREFIX" envDefault:"timegate"`
	CheckInterval time.Duration `env:"TIMEGATE_CHECK_INTERVAL" envDefault:"60s"`
	LogLevel      string        `env:"TIMEGATE_LOG_LEVEL"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.ConfigPath == "" {
		s.ConfigPath = DefaultPath()
	}
	if s.CheckInterval <= 0 {
		return Settings{}, fmt.Errorf("TIMEGATE_CHECK_INTERVAL must be positive, got %s", s.CheckInterval)
	}
	return s, nil
}
