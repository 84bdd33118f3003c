// Package domain contains the core value types and pure rules for rcdrive.
//
// This package is the innermost layer. It has no dependencies on networking,
// terminals or logging and holds only the driving rules:
//
//   - [Classify]: maps a [KeySnapshot] to one of nine [DrivingState] values
//   - [DrivingState.ToMotorValues]: maps a state to a [MotorCommand]
//   - [Datagram]: the 6-byte big-endian command frame sent on the wire
//   - [SequenceTracker]: receiver-side loss and reorder detection
//
// Everything here is deterministic and safe to call from any goroutine.
package domain
