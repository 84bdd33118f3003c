package rcdrive

import (
	"github.com/rs/zerolog"

	"github.com/bft-labs/rcdrive/internal/adapters/log"
	"github.com/bft-labs/rcdrive/internal/adapters/udp"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Transport resolves destinations and binds datagram sockets.
type Transport = ports.Transport

// DatagramConn is a bound datagram socket. *net.UDPConn satisfies it.
type DatagramConn = ports.DatagramConn

// Option configures optional behavior of a Driver.
type Option func(*options)

// options holds the optional configuration for a Driver.
type options struct {
	transport    ports.Transport
	logger       ports.Logger
	eventHandler EventHandler
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		transport: udp.NewNetTransport(),
		logger:    log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for driver events.
// Events are called synchronously from the control loop.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithTransport replaces the UDP network stack, mainly for tests.
func WithTransport(transport Transport) Option {
	return func(o *options) {
		if transport != nil {
			o.transport = transport
		}
	}
}

// NewZerologLogger adapts a zerolog logger to Logger.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return log.NewZerologAdapter(logger)
}
