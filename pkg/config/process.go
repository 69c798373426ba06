package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"
)

var logLevels = []string{"", "debug", "info", "warn", "error"}

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadinessFileName = "/tmp/ready"
	defaultLivenessFileName  = "/tmp/live"
	defaultLivenessInterval  = 20 * time.Second
)

type LogConfig struct {
	Level string `koanf:"level"`
}

func (c *LogConfig) String() string {
	return newSection("Log").add("level", c.Level).String()
}

// Validate accepts an empty level, which falls back to info.
func (c *LogConfig) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Level)) {
		return fmt.Errorf("unsupported log level: %q", c.Level)
	}
	return nil
}

type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	return newSection("PProf").
		add("enabled", c.Enabled).
		add("address", c.Addr).
		String()
}

func (c *PProfConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("pprof is enabled but address is not configured")
	}
	return nil
}

// ShutdownConfig bounds the graceful stop of every server.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	return newSection("Shutdown").add("timeout", c.Timeout).String()
}

func (c *ShutdownConfig) Validate() error {
	switch {
	case c.Timeout < 0:
		return fmt.Errorf("shutdown timeout must not be negative: %s", c.Timeout)
	case c.Timeout == 0:
		log.Println("Using default value for shutdown timeout")
		c.Timeout = defaultShutdownTimeout
	}
	return nil
}

// ProbesConfig configures file based readiness and liveness probes.
type ProbesConfig struct {
	Enabled           bool          `koanf:"enabled"`
	ReadinessFileName string        `koanf:"readinessfilename"`
	LivenessFileName  string        `koanf:"livenessfilename"`
	LivenessInterval  time.Duration `koanf:"livenessinterval"`
}

func (c *ProbesConfig) String() string {
	return newSection("Probes").
		add("enabled", c.Enabled).
		add("readinessfilename", c.ReadinessFileName).
		add("livenessfilename", c.LivenessFileName).
		add("livenessinterval", c.LivenessInterval).
		String()
}

// Validate fills unset probe settings with defaults. It never fails.
func (c *ProbesConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ReadinessFileName == "" {
		c.ReadinessFileName = defaultReadinessFileName
	}
	if c.LivenessFileName == "" {
		c.LivenessFileName = defaultLivenessFileName
	}
	if c.LivenessInterval <= 0 {
		c.LivenessInterval = defaultLivenessInterval
	}
	return nil
}
