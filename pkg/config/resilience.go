package config

import (
	"fmt"
	"time"
)

// ResilienceConfig tunes how outgoing event publishing is retried and short-circuited.
type ResilienceConfig struct {
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

type RetryConfig struct {
	MaxAttempts    uint          `koanf:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff"`
}

type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	HalfOpenRequests    uint32        `koanf:"halfopenrequests"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

func (c *ResilienceConfig) String() string {
	return newSection("Resilience").
		add("retry.maxattempts", c.Retry.MaxAttempts).
		add("retry.initialbackoff", c.Retry.InitialBackoff).
		add("circuitbreaker.consecutivefailures", c.CircuitBreaker.ConsecutiveFailures).
		add("circuitbreaker.errorratepercent", c.CircuitBreaker.ErrorRatePercent).
		add("circuitbreaker.halfopenrequests", c.CircuitBreaker.HalfOpenRequests).
		add("circuitbreaker.opentimeout", c.CircuitBreaker.OpenTimeout).
		String()
}

func (c *ResilienceConfig) Validate() error {
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.maxattempts must be greater than 0")
	}
	if c.Retry.InitialBackoff <= 0 {
		return fmt.Errorf("retry.initialbackoff must be greater than 0")
	}
	if c.CircuitBreaker.ConsecutiveFailures <= 0 {
		return fmt.Errorf("circuitbreaker.consecutivefailures must be greater than 0")
	}
	if c.CircuitBreaker.ErrorRatePercent < 0 || c.CircuitBreaker.ErrorRatePercent > 100 {
		return fmt.Errorf("circuitbreaker.errorratepercent must be between 0 and 100")
	}
	if c.CircuitBreaker.HalfOpenRequests == 0 {
		c.CircuitBreaker.HalfOpenRequests = 1
	}
	if c.CircuitBreaker.OpenTimeout <= 0 {
		return fmt.Errorf("circuitbreaker.opentimeout must be greater than 0")
	}
	return nil
}
