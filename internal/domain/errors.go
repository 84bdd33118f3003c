package domain

import "errors"

// Errors returned by rcdrive components. Callers should match them with
// errors.Is; concrete errors wrap the underlying cause.
var (
	// ErrAddressResolution is returned when the destination cannot be
	// resolved to a concrete address. Fatal at startup.
	ErrAddressResolution = errors.New("rcdrive: address resolution failed")

	// ErrBind is returned when the local endpoint cannot be bound.
	// Fatal at startup.
	ErrBind = errors.New("rcdrive: bind failed")

	// ErrSend is returned when a single command datagram cannot be
	// transmitted. The sequence counter has still advanced.
	ErrSend = errors.New("rcdrive: send failed")

	// ErrShortDatagram and ErrLongDatagram are returned when decoding a
	// buffer that is not exactly DatagramSize bytes.
	ErrShortDatagram = errors.New("rcdrive: datagram too short")
	ErrLongDatagram  = errors.New("rcdrive: datagram too long")

	// ErrUnknownKey is returned when parsing an unrecognised key name.
	ErrUnknownKey = errors.New("rcdrive: unknown key")

	// ErrAlreadyRunning is returned when a driver is started twice.
	ErrAlreadyRunning = errors.New("rcdrive: already running")

	// ErrNotRunning is returned when a lifecycle transition needs a running driver.
	ErrNotRunning = errors.New("rcdrive: not running")

	// ErrClosed is returned when a driver is used after Close.
	ErrClosed = errors.New("rcdrive: closed")

	// ErrShutdownTimeout is returned when the control loop does not return
	// within the shutdown timeout.
	ErrShutdownTimeout = errors.New("rcdrive: shutdown timeout")
)
