package cliconfig

import (
	"fmt"
	"time"
)

// Input kinds accepted by the drive command.
const (
	InputTerminal = "terminal"
	InputScript   = "script"
)

// Log output formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds CLI configuration for rcdrive.
type Config struct {
	LocalAddr  string
	RemoteAddr string
	Network    string

	ResolveTimeout time.Duration

	Input  string
	Script string
	Follow bool

	FatalSendErrors bool

	LogLevel  string
	LogFormat string

	MonitorAddr string

	// Keys maps an action ("forward", "stop", ...) to the characters bound to it.
	Keys map[string]string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Network:        "udp",
		ResolveTimeout: 5 * time.Second,
		Input:          InputTerminal,
		LogLevel:       "info",
		LogFormat:      LogFormatConsole,
	}
}

// Validate checks the configuration shared by every command.
func (c *Config) Validate() error {
	switch c.Network {
	case "udp", "udp4", "udp6":
	default:
		return fmt.Errorf("network must be udp, udp4 or udp6, got %q", c.Network)
	}

	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("log-format must be %s or %s, got %q", LogFormatConsole, LogFormatJSON, c.LogFormat)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.ResolveTimeout <= 0 {
		return fmt.Errorf("resolve timeout must be positive")
	}
	return nil
}

// ValidateDrive checks the configuration of the drive command.
func (c *Config) ValidateDrive() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.LocalAddr == "" {
		return fmt.Errorf("local address is required")
	}
	if c.RemoteAddr == "" {
		return fmt.Errorf("remote address is required")
	}

	switch c.Input {
	case InputTerminal:
		if c.Follow {
			return fmt.Errorf("follow requires script input")
		}
	case InputScript:
		if c.Script == "" {
			return fmt.Errorf("script input requires a script path")
		}
	default:
		return fmt.Errorf("input must be %s or %s, got %q", InputTerminal, InputScript, c.Input)
	}
	return nil
}

// ValidateMonitor checks the configuration of the monitor command.
func (c *Config) ValidateMonitor() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.MonitorAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
