package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/rcdrive/internal/domain"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// SendFailurePolicy decides what the control loop does when a datagram
// cannot be sent.
type SendFailurePolicy int

const (
	// PolicyContinue logs the failure and waits for the next input event.
	PolicyContinue SendFailurePolicy = iota
	// PolicyFatal ends the loop with the send error.
	PolicyFatal
)

// String returns the policy name.
func (p SendFailurePolicy) String() string {
	switch p {
	case PolicyContinue:
		return "continue"
	case PolicyFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ControlLoopConfig configures a ControlLoop.
type ControlLoopConfig struct {
	Policy SendFailurePolicy
}

// CommandEventEmitter observes every command the loop sends.
type CommandEventEmitter interface {
	OnCommand(state domain.DrivingState, cmd domain.MotorCommand, seq uint16)
	OnSendError(err error, seq uint16)
}

// ControlLoop turns input events into motor command datagrams.
// Each key event produces exactly one SendCommand call.
type ControlLoop struct {
	cfg     ControlLoopConfig
	input   ports.InputSource
	sender  ports.CommandSender
	logger  ports.Logger
	emitter CommandEventEmitter
}

// NewControlLoop creates a control loop. emitter may be nil.
func NewControlLoop(cfg ControlLoopConfig, input ports.InputSource, sender ports.CommandSender, logger ports.Logger, emitter CommandEventEmitter) *ControlLoop {
	return &ControlLoop{
		cfg:     cfg,
		input:   input,
		sender:  sender,
		logger:  logger,
		emitter: emitter,
	}
}

// Run blocks until the input source quits, ctx is canceled or, under
// PolicyFatal, a send fails. A quit returns nil.
func (c *ControlLoop) Run(ctx context.Context) error {
	for {
		ev, err := c.input.Next(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("read input: %w", err)
		}

		switch ev.Kind {
		case domain.EventQuit:
			c.logger.Info("quit requested")
			return nil
		case domain.EventKeyDown, domain.EventKeyUp:
			if err := c.step(ev); err != nil {
				return err
			}
		default:
			c.logger.Debug("ignoring input event", ports.String("kind", ev.Kind.String()))
		}
	}
}

func (c *ControlLoop) step(ev domain.InputEvent) error {
	state := domain.Classify(c.input.Snapshot())
	cmd := state.ToMotorValues()
	seq := c.sender.Sequence()

	c.logger.Debug("input event",
		ports.String("kind", ev.Kind.String()),
		ports.String("key", ev.Key.String()),
	)

	if err := c.sender.SendCommand(cmd.Left, cmd.Right); err != nil {
		if c.emitter != nil {
			c.emitter.OnSendError(err, seq)
		}
		if c.cfg.Policy == PolicyFatal {
			return err
		}
		c.logger.Warn("send failed",
			ports.Uint16("seq", seq),
			ports.String("state", state.String()),
			ports.Err(err),
		)
		return nil
	}

	if c.emitter != nil {
		c.emitter.OnCommand(state, cmd, seq)
	}
	c.logger.Info("driving",
		ports.String("state", state.String()),
		ports.Uint16("left", cmd.Left),
		ports.Uint16("right", cmd.Right),
		ports.Uint16("seq", seq),
	)
	return nil
}
