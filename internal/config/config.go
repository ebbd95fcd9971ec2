// Package config provides configuration loading for httplog.
//
// Configuration comes from an optional YAML file overlaid with HTTPLOG_
// environment variables. The typed sections below cover the outgoing client,
// the host sink, the sample caller and the fixture server. Sections owned by
// other packages (logging, telemetry) are read with Decode so that their
// defaults live next to the code that uses them.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/knadh/koanf/v2"
)

// Config holds the complete httplog configuration.
type Config struct {
	Client  ClientConfig  `koanf:"client"`
	Host    HostConfig    `koanf:"host"`
	Sample  SampleConfig  `koanf:"sample"`
	Fixture FixtureConfig `koanf:"fixture"`

	k *koanf.Koanf
}

// ClientConfig tunes the transport the logging interceptor wraps.
type ClientConfig struct {
	Timeout               Duration `koanf:"timeout"`
	DialTimeout           Duration `koanf:"dial_timeout"`
	TLSHandshakeTimeout   Duration `koanf:"tls_handshake_timeout"`
	ResponseHeaderTimeout Duration `koanf:"response_header_timeout"`
	MaxIdleConns          int      `koanf:"max_idle_conns"`
	UserAgent             string   `koanf:"user_agent"`
	// BearerToken, when set, is sent as an Authorization header.
	BearerToken Secret `koanf:"bearer_token"`
}

// HostConfig selects the logging host behind the sink adapter.
type HostConfig struct {
	Backend string         `koanf:"backend"` // zap or logrus
	File    HostFileConfig `koanf:"file"`
}

// HostFileConfig enables rotating file output for the logrus backend.
type HostFileConfig struct {
	Path       string `koanf:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// SampleConfig drives the sample caller.
type SampleConfig struct {
	URLs        []string `koanf:"urls"`
	Concurrency int      `koanf:"concurrency"`
	Rate        float64  `koanf:"rate"` // requests per second, 0 = unlimited
}

// FixtureConfig holds the local fixture server settings.
type FixtureConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Host backends.
const (
	BackendZap    = "zap"
	BackendLogrus = "logrus"
)

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			Timeout:               Duration(30 * time.Second),
			DialTimeout:           Duration(10 * time.Second),
			TLSHandshakeTimeout:   Duration(10 * time.Second),
			ResponseHeaderTimeout: Duration(15 * time.Second),
			MaxIdleConns:          100,
			UserAgent:             "httplog/dev",
		},
		Host: HostConfig{
			Backend: BackendZap,
			File: HostFileConfig{
				MaxSizeMB:  100,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Sample: SampleConfig{
			URLs: []string{
				"https://dummyjson.com/products",
				"https://some-error.com",
			},
			Concurrency: 4,
			Rate:        0,
		},
		Fixture: FixtureConfig{
			Host:            "127.0.0.1",
			Port:            8089,
			ShutdownTimeout: Duration(10 * time.Second),
		},
	}
}

// Decode unmarshals section into out. Values already in out act as
// defaults; only keys present in the loaded configuration override them.
func (c *Config) Decode(section string, out any) error {
	if c.k == nil {
		return nil
	}
	if err := c.k.Unmarshal(section, out); err != nil {
		return fmt.Errorf("failed to decode %s config: %w", section, err)
	}
	return nil
}

// Validate validates the configuration.
//
// Returns an error if:
//   - A client timeout is negative or the overall timeout is zero
//   - The host backend is unknown
//   - Rotation limits are negative
//   - A sample URL is not absolute
//   - Sample concurrency is below 1 or rate is negative
//   - Fixture port is not between 0 and 65535
func (c *Config) Validate() error {
	if c.Client.Timeout <= 0 {
		return errors.New("client timeout must be positive")
	}
	if c.Client.DialTimeout < 0 || c.Client.TLSHandshakeTimeout < 0 || c.Client.ResponseHeaderTimeout < 0 {
		return errors.New("client timeouts cannot be negative")
	}
	if c.Client.MaxIdleConns < 0 {
		return fmt.Errorf("invalid max idle conns: %d", c.Client.MaxIdleConns)
	}

	switch c.Host.Backend {
	case BackendZap, BackendLogrus:
	default:
		return fmt.Errorf("unknown host backend %q (must be %s or %s)", c.Host.Backend, BackendZap, BackendLogrus)
	}
	if f := c.Host.File; f.MaxSizeMB < 0 || f.MaxBackups < 0 || f.MaxAgeDays < 0 {
		return errors.New("host file rotation limits cannot be negative")
	}

	for _, raw := range c.Sample.URLs {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid sample url %q: %w", raw, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("sample url %q must be absolute", raw)
		}
	}
	if c.Sample.Concurrency < 1 {
		return fmt.Errorf("sample concurrency must be >= 1, got %d", c.Sample.Concurrency)
	}
	if c.Sample.Rate < 0 {
		return fmt.Errorf("sample rate cannot be negative: %v", c.Sample.Rate)
	}

	if c.Fixture.Port < 0 || c.Fixture.Port > 65535 {
		return fmt.Errorf("invalid fixture port: %d (must be 0-65535)", c.Fixture.Port)
	}
	if c.Fixture.ShutdownTimeout <= 0 {
		return errors.New("fixture shutdown timeout must be positive")
	}

	return nil
}
