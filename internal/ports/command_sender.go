package ports

// CommandSender transmits motor commands to the actuator controller.
// Each call consumes exactly one sequence number whether or not the
// datagram left the host. Implementations are not required to be safe
// for concurrent use.
type CommandSender interface {
	// SendCommand encodes and transmits one command datagram.
	// No acknowledgment is awaited and nothing is retried.
	SendCommand(left, right uint16) error

	// Sequence returns the sequence number the next SendCommand will use.
	Sequence() uint16
}
