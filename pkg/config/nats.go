package config

import (
	"fmt"
	"time"
)

// NATSConfig configures the JetStream connection used to publish pet events.
// When Enabled is false events are discarded and the other fields are ignored.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
}

func (c *NATSConfig) String() string {
	return newSection("NATS").
		add("enabled", c.Enabled).
		add("url", c.Url).
		add("timeout", c.Timeout).
		add("stream", c.Stream).
		String()
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nats dial timeout is not configured")
	}
	if c.Stream == "" {
		return fmt.Errorf("NATS stream is not configured")
	}
	return nil
}
