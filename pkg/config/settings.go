package config

import (
	"fmt"
	"strings"
)

// Settings configures the command line tool. It is decoded by viper from
// catalogform.yaml, environment variables and flags.
type Settings struct {
	Log     LogSettings     `mapstructure:"log"`
	HTTP    HTTPSettings    `mapstructure:"http"`
	Metrics MetricsSettings `mapstructure:"metrics"`
	Tracing TracingSettings `mapstructure:"tracing"`
	Plugins PluginSettings  `mapstructure:"plugins"`
}

// LogSettings selects the zerolog level and output format.
type LogSettings struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format string `mapstructure:"format"` // "console" (default) or "json"
}

// HTTPSettings configures the serve command.
type HTTPSettings struct {
	Addr string `mapstructure:"addr"`
}

// MetricsSettings toggles the /metrics endpoint.
type MetricsSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

// TracingSettings configures OpenTelemetry export of composition spans.
type TracingSettings struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // stdout, otlp or none
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// PluginSettings chooses which optional plugins are active.
type PluginSettings struct {
	// Extensions lists the extension plugins to enable by short name
	// ("item-assets", "render"). Empty enables none.
	Extensions []string `mapstructure:"extensions"`
	// Dir holds declarative plugin documents loaded on startup.
	Dir string `mapstructure:"dir"`
}

// Defaults returns the settings used when no config file is present.
func Defaults() Settings {
	return Settings{
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
		HTTP: HTTPSettings{
			Addr: ":8080",
		},
		Metrics: MetricsSettings{
			Enabled: true,
		},
		Tracing: TracingSettings{
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1,
		},
		Plugins: PluginSettings{
			Extensions: []string{"item-assets", "render"},
		},
	}
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Log.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: log.format %q must be console or json", s.Log.Format)
	}
	switch s.Tracing.Exporter {
	case "", "stdout", "otlp", "none":
	default:
		return fmt.Errorf("config: tracing.exporter %q must be stdout, otlp or none", s.Tracing.Exporter)
	}
	if s.Tracing.SampleRate < 0 || s.Tracing.SampleRate > 1 {
		return fmt.Errorf("config: tracing.sample_rate %v must be between 0 and 1", s.Tracing.SampleRate)
	}
	if strings.TrimSpace(s.HTTP.Addr) == "" {
		return fmt.Errorf("config: http.addr is required")
	}
	for idx, ext := range s.Plugins.Extensions {
		if strings.TrimSpace(ext) == "" {
			return fmt.Errorf("config: plugins.extensions[%d] is empty", idx)
		}
	}
	return nil
}

// ExtensionEnabled reports whether the extension short name is enabled.
func (s Settings) ExtensionEnabled(name string) bool {
	for _, ext := range s.Plugins.Extensions {
		if strings.EqualFold(strings.TrimSpace(ext), name) {
			return true
		}
	}
	return false
}
