package config

import (
	"fmt"
	"strconv"
)

type GrpcServerConfig struct {
	Port              string `koanf:"port"`
	ReflectionEnabled bool   `koanf:"reflection"`
}

func (c *GrpcServerConfig) String() string {
	return newSection("gRPC Server").
		add("port", c.Port).
		add("reflection", c.ReflectionEnabled).
		String()
}

// Addr returns the listen address of the gRPC server.
func (c *GrpcServerConfig) Addr() string {
	return ":" + c.Port
}

func (c *GrpcServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("gRPC port is not configured")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid gRPC port: %s", c.Port)
	}
	return nil
}
