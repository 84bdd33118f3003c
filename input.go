package rcdrive

import (
	"io"

	"github.com/bft-labs/rcdrive/internal/adapters/input"
	"github.com/bft-labs/rcdrive/internal/domain"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// InputSource delivers key changes to a Driver.
type InputSource = ports.InputSource

// Domain types re-exported for embedders.
type (
	DrivingState = domain.DrivingState
	MotorCommand = domain.MotorCommand
	Key          = domain.Key
	KeySet       = domain.KeySet
	KeySnapshot  = domain.KeySnapshot
	InputEvent   = domain.InputEvent
	EventKind    = domain.EventKind
	Datagram     = domain.Datagram
)

// Driving states.
const (
	Stopped      = domain.Stopped
	Forward      = domain.Forward
	ForwardLeft  = domain.ForwardLeft
	ForwardRight = domain.ForwardRight
	Left         = domain.Left
	Right        = domain.Right
	Reverse      = domain.Reverse
	ReverseLeft  = domain.ReverseLeft
	ReverseRight = domain.ReverseRight
)

// Logical keys.
const (
	KeyForward   = domain.KeyForward
	KeyBack      = domain.KeyBack
	KeyTurnLeft  = domain.KeyTurnLeft
	KeyTurnRight = domain.KeyTurnRight
)

// Input event kinds.
const (
	EventKeyDown = domain.EventKeyDown
	EventKeyUp   = domain.EventKeyUp
	EventQuit    = domain.EventQuit
)

// DatagramSize is the length of every command datagram.
const DatagramSize = domain.DatagramSize

// Errors returned by a Driver. Match them with errors.Is.
var (
	ErrAddressResolution = domain.ErrAddressResolution
	ErrBind              = domain.ErrBind
	ErrSend              = domain.ErrSend
	ErrAlreadyRunning    = domain.ErrAlreadyRunning
	ErrClosed            = domain.ErrClosed
	ErrShutdownTimeout   = domain.ErrShutdownTimeout
)

// Classify returns the driving state for the held keys. Forward wins over
// Back and TurnLeft wins over TurnRight.
func Classify(keys KeySnapshot) DrivingState {
	return domain.Classify(keys)
}

// NewKeySet returns a KeySet holding keys.
func NewKeySet(keys ...Key) KeySet {
	return domain.NewKeySet(keys...)
}

// DecodeDatagram parses a 6-byte command datagram.
func DecodeDatagram(b []byte) (Datagram, error) {
	return domain.DecodeDatagram(b)
}

// NewScriptInput reads "down <key>", "up <key>" and "quit" lines from r.
// The source quits at end of input.
func NewScriptInput(r io.Reader) InputSource {
	return input.NewScript(r)
}
