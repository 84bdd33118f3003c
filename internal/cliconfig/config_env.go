package cliconfig

import "os"

// EnvPrefix is the prefix of every environment variable read by ApplyEnvConfig.
const EnvPrefix = "RCDRIVE_"

// ApplyEnvConfig applies configuration from environment variables (RCDRIVE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("local", os.Getenv(EnvPrefix+"LOCAL_ADDR"), &cfg.LocalAddr)
	s.setString("remote", os.Getenv(EnvPrefix+"REMOTE_ADDR"), &cfg.RemoteAddr)
	s.setString("network", os.Getenv(EnvPrefix+"NETWORK"), &cfg.Network)
	s.setString("input", os.Getenv(EnvPrefix+"INPUT"), &cfg.Input)
	s.setString("script", os.Getenv(EnvPrefix+"SCRIPT"), &cfg.Script)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv(EnvPrefix+"LOG_FORMAT"), &cfg.LogFormat)
	s.setString("listen", os.Getenv(EnvPrefix+"MONITOR_ADDR"), &cfg.MonitorAddr)

	if err := s.setDuration("resolve-timeout", os.Getenv(EnvPrefix+"RESOLVE_TIMEOUT"), &cfg.ResolveTimeout); err != nil {
		return err
	}

	s.setBoolFromString("follow", os.Getenv(EnvPrefix+"FOLLOW"), &cfg.Follow)
	s.setBoolFromString("fatal-send-errors", os.Getenv(EnvPrefix+"FATAL_SEND_ERRORS"), &cfg.FatalSendErrors)

	return nil
}
