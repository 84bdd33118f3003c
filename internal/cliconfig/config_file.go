package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
//
//	local_addr = "0.0.0.0:9001"
//	remote_addr = "car.local:9000"
//	input = "terminal"
//
//	[keys]
//	forward = "w"
//	stop = " "
type FileConfig struct {
	LocalAddr       string            `toml:"local_addr"`
	RemoteAddr      string            `toml:"remote_addr"`
	Network         string            `toml:"network"`
	ResolveTimeout  string            `toml:"resolve_timeout"`
	Input           string            `toml:"input"`
	Script          string            `toml:"script"`
	Follow          *bool             `toml:"follow"`
	FatalSendErrors *bool             `toml:"fatal_send_errors"`
	LogLevel        string            `toml:"log_level"`
	LogFormat       string            `toml:"log_format"`
	MonitorAddr     string            `toml:"monitor_addr"`
	Keys            map[string]string `toml:"keys"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.rcdrive/config.toml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".rcdrive", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("local", fc.LocalAddr, &cfg.LocalAddr)
	s.setString("remote", fc.RemoteAddr, &cfg.RemoteAddr)
	s.setString("network", fc.Network, &cfg.Network)
	s.setString("input", fc.Input, &cfg.Input)
	s.setString("script", fc.Script, &cfg.Script)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)
	s.setString("listen", fc.MonitorAddr, &cfg.MonitorAddr)

	if err := s.setDuration("resolve-timeout", fc.ResolveTimeout, &cfg.ResolveTimeout); err != nil {
		return err
	}

	s.setBool("follow", fc.Follow, &cfg.Follow)
	s.setBool("fatal-send-errors", fc.FatalSendErrors, &cfg.FatalSendErrors)

	if len(fc.Keys) > 0 {
		if cfg.Keys == nil {
			cfg.Keys = make(map[string]string, len(fc.Keys))
		}
		for action, chars := range fc.Keys {
			cfg.Keys[action] = chars
		}
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
