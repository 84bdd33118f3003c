package rcdrive

import (
	"github.com/bft-labs/rcdrive/internal/app"
	"github.com/bft-labs/rcdrive/internal/domain"
)

// State represents the lifecycle state of a Driver.
type State int

const (
	StateIdle State = iota
	StateDriving
	StateStopping
	StateStopped
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

func convertState(s app.State) State {
	switch s {
	case app.StateIdle:
		return StateIdle
	case app.StateDriving:
		return StateDriving
	case app.StateStopping:
		return StateStopping
	case app.StateStopped:
		return StateStopped
	case app.StateFailed:
		return StateFailed
	default:
		return StateFailed
	}
}

// EventHandler receives notifications from a Driver.
// Embed BaseEventHandler to implement only the methods you need.
type EventHandler interface {
	OnStateChange(StateChangeEvent)
	OnCommand(CommandEvent)
	OnSendError(SendErrorEvent)
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// CommandEvent describes a datagram that was sent.
type CommandEvent struct {
	State    DrivingState
	Command  MotorCommand
	Sequence uint16
}

// SendErrorEvent describes a datagram that could not be sent. The sequence
// number was consumed anyway.
type SendErrorEvent struct {
	Error    error
	Sequence uint16
}

// BaseEventHandler implements EventHandler with no-op methods.
type BaseEventHandler struct{}

// OnStateChange ignores the event.
func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

// OnCommand ignores the event.
func (BaseEventHandler) OnCommand(CommandEvent) {}

// OnSendError ignores the event.
func (BaseEventHandler) OnSendError(SendErrorEvent) {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnCommand(state domain.DrivingState, cmd domain.MotorCommand, seq uint16) {
	if e.handler == nil {
		return
	}
	e.handler.OnCommand(CommandEvent{State: state, Command: cmd, Sequence: seq})
}

func (e *eventEmitterWrapper) OnSendError(err error, seq uint16) {
	if e.handler == nil {
		return
	}
	e.handler.OnSendError(SendErrorEvent{Error: err, Sequence: seq})
}
