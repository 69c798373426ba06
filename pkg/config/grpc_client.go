package config

import (
	"fmt"
	"log"
	"time"
)

// GrpcClientConfig configures a client of the PetStore gRPC service.
type GrpcClientConfig struct {
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

const defaultGrpcClientTimeout = 5 * time.Second

func (c *GrpcClientConfig) String() string {
	return newSection("gRPC Client").
		add("addr", c.Addr).
		add("timeout", c.Timeout).
		String()
}

func (c *GrpcClientConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("gRPC client address is not configured")
	}
	if c.Timeout <= 0 {
		log.Println("Using default value for gRPC client timeout")
		c.Timeout = defaultGrpcClientTimeout
	}
	return nil
}
