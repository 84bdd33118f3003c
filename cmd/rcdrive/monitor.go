package main

import (
	"fmt"

	"github.com/spf13/cobra"

	logAdapter "github.com/bft-labs/rcdrive/internal/adapters/log"
	"github.com/bft-labs/rcdrive/internal/adapters/udp"
	"github.com/bft-labs/rcdrive/internal/app"
	"github.com/bft-labs/rcdrive/internal/cliconfig"
)

func newMonitorCommand(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor [listen-addr]",
		Short: "Log command datagrams received on a UDP address",
		Long: "Bind a UDP address, decode every command datagram and report " +
			"sequence gaps, duplicates and late arrivals. Nothing is sent back.",
		Example:       "  rcdrive monitor :9000\n  rcdrive monitor --listen 127.0.0.1:9000 --log-format json",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			if len(args) > 0 {
				cfg.MonitorAddr = args[0]
				changed["listen"] = true
			}

			if err := loadConfig(*cfgPath, cfg, changed); err != nil {
				return err
			}
			if err := cfg.ValidateMonitor(); err != nil {
				return err
			}

			zl, err := newLogger(*cfg, false)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rx, err := udp.NewReceiver(ctx, udp.NewNetTransport(), cfg.Network, cfg.MonitorAddr)
			if err != nil {
				return err
			}
			defer rx.Close()

			zl.Info().Str("listen", rx.LocalAddr().String()).Msg("monitoring")

			m := app.NewMonitor(rx, logAdapter.NewZerologAdapter(zl))
			if err := m.Run(ctx); err != nil {
				return fmt.Errorf("monitor: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.MonitorAddr, "listen", cfg.MonitorAddr, "host:port to listen on (or first argument)")
	return cmd
}
