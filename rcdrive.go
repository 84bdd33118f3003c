package rcdrive

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bft-labs/rcdrive/internal/adapters/udp"
	"github.com/bft-labs/rcdrive/internal/app"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// Default configuration values.
const (
	DefaultNetwork        = udp.NetworkUDP
	DefaultResolveTimeout = 5 * time.Second
)

// Config holds the configuration of a Driver.
type Config struct {
	// LocalAddr is the host:port to bind, e.g. "0.0.0.0:9001".
	LocalAddr string
	// RemoteAddr is the car's host:port. It is resolved once by New.
	RemoteAddr string
	// Network is "udp", "udp4" or "udp6".
	Network string
	// ResolveTimeout bounds destination resolution in New.
	ResolveTimeout time.Duration
	// FatalSendErrors ends Run on the first failed send.
	FatalSendErrors bool
}

// DefaultConfig returns a Config with default values. LocalAddr and
// RemoteAddr must still be set.
func DefaultConfig() Config {
	return Config{
		Network:        DefaultNetwork,
		ResolveTimeout: DefaultResolveTimeout,
	}
}

// SetDefaults fills zero-valued optional fields.
func (c *Config) SetDefaults() {
	if c.Network == "" {
		c.Network = DefaultNetwork
	}
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = DefaultResolveTimeout
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.LocalAddr == "" {
		return errors.New("rcdrive: local address is required")
	}
	if c.RemoteAddr == "" {
		return errors.New("rcdrive: remote address is required")
	}
	switch c.Network {
	case udp.NetworkUDP, udp.NetworkUDP4, udp.NetworkUDP6:
	default:
		return fmt.Errorf("rcdrive: unsupported network %q", c.Network)
	}
	return nil
}

// Driver sends one motor command datagram per input event.
// Use New to create one, then Run.
type Driver struct {
	config    Config
	lifecycle *app.Lifecycle
	channel   *udp.CommandChannel
	loop      *app.ControlLoop
	logger    ports.Logger

	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// New resolves the destination, binds the local address and returns an Idle
// Driver. Resolution failures match ErrAddressResolution and bind failures
// match ErrBind.
func New(ctx context.Context, cfg Config, input InputSource, opts ...Option) (*Driver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, errors.New("rcdrive: input source is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	resolveCtx, cancel := context.WithTimeout(ctx, cfg.ResolveTimeout)
	defer cancel()

	channel, err := udp.NewCommandChannel(resolveCtx, o.transport, cfg.Network, cfg.LocalAddr, cfg.RemoteAddr)
	if err != nil {
		return nil, err
	}

	o.logger.Info("destination resolved",
		ports.String("remote", cfg.RemoteAddr),
		ports.Stringer("destination", channel.Destination()),
		ports.Stringer("local", channel.LocalAddr()),
	)

	policy := app.PolicyContinue
	if cfg.FatalSendErrors {
		policy = app.PolicyFatal
	}
	loop := app.NewControlLoop(app.ControlLoopConfig{Policy: policy}, input, channel, o.logger, emitter)

	return &Driver{
		config:    cfg,
		lifecycle: app.NewLifecycle(o.logger, emitter),
		channel:   channel,
		loop:      loop,
		logger:    o.logger,
	}, nil
}

// Run drives until the input source quits, ctx is canceled, Close is called
// or, with FatalSendErrors, a send fails. A quit returns nil. The socket is
// released when Run returns. Run may be called once.
func (d *Driver) Run(ctx context.Context) error {
	d.mu.Lock()
	if err := d.lifecycle.TransitionTo(app.StateDriving, "Run() called"); err != nil {
		d.mu.Unlock()
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	d.lifecycle.SetCancel(cancel)
	d.lifecycle.AddWorker()
	d.mu.Unlock()

	defer d.lifecycle.WorkerDone()

	err := d.loop.Run(runCtx)

	d.mu.Lock()
	defer d.mu.Unlock()

	// Close is already tearing down; it owns the final transition.
	if d.lifecycle.State() != app.StateDriving {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil
		}
		return err
	}

	switch {
	case err == nil:
		_ = d.lifecycle.TransitionTo(app.StateStopped, "quit")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		_ = d.lifecycle.TransitionTo(app.StateStopped, err.Error())
	default:
		d.logger.Error("control loop failed", ports.Err(err))
		_ = d.lifecycle.TransitionTo(app.StateFailed, err.Error())
	}

	if closeErr := d.closeChannel(); closeErr != nil {
		d.logger.Warn("close channel", ports.Err(closeErr))
	}
	return err
}

// Close stops a running Driver and releases the socket. It waits up to
// two seconds for Run to return. Calling Close more than once is safe.
func (d *Driver) Close() error {
	d.mu.Lock()

	switch d.lifecycle.State() {
	case app.StateIdle:
		_ = d.lifecycle.TransitionTo(app.StateStopped, "Close() called")
		err := d.closeChannel()
		d.mu.Unlock()
		return err
	case app.StateDriving:
	default:
		d.mu.Unlock()
		return d.closeChannel()
	}

	if err := d.lifecycle.TransitionTo(app.StateStopping, "Close() called"); err != nil {
		d.mu.Unlock()
		return err
	}
	d.lifecycle.Cancel()
	d.mu.Unlock()

	// A terminal read cannot be interrupted; closing the socket also fails
	// any send still in flight.
	waitErr := d.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	closeErr := d.closeChannel()

	d.mu.Lock()
	if waitErr != nil {
		_ = d.lifecycle.TransitionTo(app.StateFailed, "shutdown timeout")
	} else {
		_ = d.lifecycle.TransitionTo(app.StateStopped, "Close() called")
	}
	d.mu.Unlock()

	return errors.Join(waitErr, closeErr)
}

func (d *Driver) closeChannel() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.channel.Close()
	})
	return d.closeErr
}

// Destination returns the resolved address datagrams are sent to.
func (d *Driver) Destination() net.Addr {
	return d.channel.Destination()
}

// LocalAddr returns the bound local address.
func (d *Driver) LocalAddr() net.Addr {
	return d.channel.LocalAddr()
}

// Sequence returns the sequence number the next datagram will carry.
// It is only meaningful while Run is not executing.
func (d *Driver) Sequence() uint16 {
	return d.channel.Sequence()
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (d *Driver) Status() State {
	return convertState(d.lifecycle.State())
}
