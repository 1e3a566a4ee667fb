// Package config loads the settings of the demo and other hosts of the
// engine.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Tree    TreeConfig    `mapstructure:"tree"`
	Log     LogConfig     `mapstructure:"log"`
}

type RuntimeConfig struct {
	TickRate         time.Duration `mapstructure:"tick_rate"`
	MaxEventsPerTick int           `mapstructure:"max_events_per_tick"`
	// Timeout bounds a whole run. Zero runs until the tree finishes.
	Timeout time.Duration `mapstructure:"timeout"`
}

type TreeConfig struct {
	Dir    string `mapstructure:"dir"`
	ID     string `mapstructure:"id"`
	Format string `mapstructure:"format"` // yaml | json
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Load reads config from the given YAML file path. An empty path yields the
// defaults. Every key can be overridden from the environment, e.g.
// BEHAVIORX_RUNTIME_TICK_RATE=10ms.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("behaviorx")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("runtime.tick_rate", "16667us")
	v.SetDefault("runtime.max_events_per_tick", 1000)
	v.SetDefault("runtime.timeout", "0s")
	v.SetDefault("tree.dir", "./trees")
	v.SetDefault("tree.id", "patrol")
	v.SetDefault("tree.format", "yaml")
	v.SetDefault("log.debug", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Runtime.TickRate <= 0 {
		return fmt.Errorf("runtime.tick_rate must be positive, got %s", c.Runtime.TickRate)
	}
	if c.Runtime.MaxEventsPerTick <= 0 {
		return fmt.Errorf("runtime.max_events_per_tick must be positive, got %d", c.Runtime.MaxEventsPerTick)
	}
	switch c.Tree.Format {
	case "yaml", "json":
	default:
		return fmt.Errorf("tree.format must be yaml or json, got %q", c.Tree.Format)
	}
	return nil
}
