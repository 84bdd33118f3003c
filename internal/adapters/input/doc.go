// Package input provides ports.InputSource implementations.
//
//   - [Terminal]: interactive driving from a raw-mode terminal
//   - [Script]: line-oriented event scripts, optionally followed as a file grows
//
// Both track the held keys as a [domain.KeySet] and notify one change per
// event, so the control loop sends exactly one datagram per transition.
package input
