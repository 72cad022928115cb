package config

import (
	"strings"

	"github.com/abgdnv/itemshop/pkg/config"
	"github.com/abgdnv/itemshop/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	Shop       config.ShopConfig      `koanf:"shop"`
}

// Defaults returns the settings used when neither config.yaml nor the environment sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":                       8080,
		"server.maxHeaderBytes":             1 << 20,
		"server.timeout.read":               "5s",
		"server.timeout.write":              "10s",
		"server.timeout.idle":               "60s",
		"server.timeout.readHeader":         "2s",
		"log.level":                         "info",
		"pprof.enabled":                     false,
		"pprof.addr":                        "localhost:6060",
		"shutdown.timeout":                  "10s",
		"telemetry.enabled":                 false,
		"telemetry.traces.otlphttp.timeout": "5s",
		"shop.capacity":                     10,
	}
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Shop.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.Shop.Validate(); err != nil {
		return err
	}
	return nil
}
