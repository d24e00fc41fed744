// Package config loads runtime configuration for the planner binary.
// Scenario definitions live in their own files (see core.LoadScenarioFile);
// this package only covers how the process runs: cadence, serving
// addresses, logging, and tracing.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds planner runtime configuration.
type Config struct {
	Scenario ScenarioConfig
	Loop     LoopConfig
	Serve    ServeConfig
	Log      LogConfig
	Tracing  TracingConfig
}

// ScenarioConfig names the scenario definition to run.
type ScenarioConfig struct {
	Path string
}

// LoopConfig paces the planning loop.
type LoopConfig struct {
	Tick        time.Duration
	MaxTicks    int
	Accelerated bool
}

// ServeConfig holds listener addresses for the observability surfaces.
type ServeConfig struct {
	MetricsAddr string
	HealthAddr  string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// TracingConfig holds tracing settings.
type TracingConfig struct {
	Enabled     bool
	Exporter    string
	Endpoint    string
	SampleRatio float64
}

// Load reads configuration from an optional file and the environment.
// Env var overrides use prefix PLANNER_, with dots replaced by underscores
// (e.g. PLANNER_LOOP_TICK=50ms). An empty path means "search the usual
// places and fall back to defaults if nothing is found".
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("scenario.path", "configs/scenario_demo.yaml")
	v.SetDefault("loop.tick", 100*time.Millisecond)
	v.SetDefault("loop.maxticks", 0)
	v.SetDefault("loop.accelerated", false)
	v.SetDefault("serve.metricsaddr", ":9090")
	v.SetDefault("serve.healthaddr", ":50061")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sampleratio", 1.0)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/planner")
	}

	v.SetEnvPrefix("PLANNER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when we were only searching defaults;
		// an explicitly named file must exist and parse.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
