package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/rcdrive"
	"github.com/bft-labs/rcdrive/internal/adapters/input"
	"github.com/bft-labs/rcdrive/internal/cliconfig"
)

const helpDescription = `
Drive a two-motor RC car over UDP from the keyboard or a script.

Every key press or release sends one 6-byte datagram to the car:
a big-endian sequence number, the left setpoint and the right setpoint.
Nothing is acknowledged or retried.

Terminal input toggles keys, since terminals report no key release:
  w/s      forward / back
  a/d      turn left / right
  space    release every key
  q        quit

Script input reads "down <key>", "up <key>" and "quit" lines.
`

var exampleUsage = strings.TrimSpace(`
  rcdrive 0.0.0.0:9001 car.local:9000
  rcdrive --input script --script drive.txt 0.0.0.0:9001 192.168.4.1:9000
  rcdrive --input script --script /tmp/steer --follow 0.0.0.0:9001 car.local:9000
  rcdrive monitor :9000
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "rcdrive [local-addr] [remote-addr]",
		Short:         "Drive an RC car over UDP",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			if len(args) > 0 {
				cfg.LocalAddr = args[0]
				changed["local"] = true
			}
			if len(args) > 1 {
				cfg.RemoteAddr = args[1]
				changed["remote"] = true
			}

			if err := loadConfig(cfgPath, &cfg, changed); err != nil {
				return err
			}
			if err := cfg.ValidateDrive(); err != nil {
				return err
			}
			return drive(cmd.Context(), cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.rcdrive/config.toml)")
	pf.StringVar(&cfg.Network, "network", cfg.Network, "udp, udp4 or udp6")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console or json")

	root.Flags().StringVar(&cfg.LocalAddr, "local", cfg.LocalAddr, "local host:port to bind (or first argument)")
	root.Flags().StringVar(&cfg.RemoteAddr, "remote", cfg.RemoteAddr, "car host:port (or second argument)")
	root.Flags().DurationVar(&cfg.ResolveTimeout, "resolve-timeout", cfg.ResolveTimeout, "timeout for resolving the car address")
	root.Flags().StringVar(&cfg.Input, "input", cfg.Input, "input source: terminal or script")
	root.Flags().StringVar(&cfg.Script, "script", cfg.Script, "script file for --input script")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading lines appended to the script")
	root.Flags().BoolVar(&cfg.FatalSendErrors, "fatal-send-errors", cfg.FatalSendErrors, "exit on the first failed send instead of logging it")

	root.AddCommand(newMonitorCommand(&cfg, &cfgPath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("rcdrive")
		stop()
		os.Exit(1)
	}
}

// changedFlags returns the names of flags set on the command line.
func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}

// loadConfig layers the config file and RCDRIVE_* variables under the
// flags already parsed into cfg.
func loadConfig(cfgPath string, cfg *cliconfig.Config, changed map[string]bool) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	if cfgFile != "" && (cfgPath != "" || cliconfig.FileExists(cfgFile)) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	// These override file config but are overridden by flags (checked via changed map)
	return cliconfig.ApplyEnvConfig(cfg, changed)
}

// newLogger builds the session logger. Each run gets its own session id.
func newLogger(cfg cliconfig.Config, raw bool) (zerolog.Logger, error) {
	var w io.Writer = os.Stderr
	if raw {
		w = input.NewlineWriter{W: os.Stderr}
	}
	log, err := cliconfig.NewLogger(w, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return log, err
	}
	return log.With().Str("session", uuid.NewString()).Logger(), nil
}

type inputSource interface {
	rcdrive.InputSource
	Close() error
}

func openInput(cfg cliconfig.Config, km input.Keymap) (inputSource, error) {
	if cfg.Input == cliconfig.InputScript {
		s, err := input.OpenScript(cfg.Script, cfg.Follow)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		return s, nil
	}

	t, err := input.OpenTerminal(os.Stdin, km)
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return t, nil
}

func drive(ctx context.Context, cfg cliconfig.Config) error {
	km, err := input.ParseKeymap(cfg.Keys)
	if err != nil {
		return err
	}

	src, err := openInput(cfg, km)
	if err != nil {
		return err
	}
	defer src.Close()

	zl, err := newLogger(cfg, cfg.Input == cliconfig.InputTerminal)
	if err != nil {
		return err
	}

	d, err := rcdrive.New(ctx, rcdrive.Config{
		LocalAddr:       cfg.LocalAddr,
		RemoteAddr:      cfg.RemoteAddr,
		Network:         cfg.Network,
		ResolveTimeout:  cfg.ResolveTimeout,
		FatalSendErrors: cfg.FatalSendErrors,
	}, src, rcdrive.WithLogger(rcdrive.NewZerologLogger(zl)))
	if err != nil {
		return err
	}
	defer d.Close()

	if cfg.Input == cliconfig.InputTerminal {
		zl.Info().Str("keys", km.Usage()).Msg("ready")
	} else {
		zl.Info().Str("script", cfg.Script).Bool("follow", cfg.Follow).Msg("ready")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	// Wait for quit or signal
	select {
	case err := <-errCh:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		zl.Info().Msg("received signal, stopping...")
		if err := d.Close(); err != nil && !errors.Is(err, rcdrive.ErrShutdownTimeout) {
			return err
		}
		return nil
	}
}
