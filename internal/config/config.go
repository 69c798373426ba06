// Package config holds the configuration of the pet service.
package config

import (
	"strings"

	"github.com/abgdnv/petstore/pkg/config"
	"github.com/abgdnv/petstore/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Probes     config.ProbesConfig     `koanf:"probes"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Probes.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// Sections are validated in order and the first failure is returned.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.GRPC,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.NATS,
		&c.Telemetry,
		&c.Probes,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	// resilience only guards event publishing
	if c.NATS.Enabled {
		return c.Resilience.Validate()
	}
	return nil
}
