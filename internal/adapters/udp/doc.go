// Package udp implements the command channel and the diagnostic receiver on
// top of connectionless UDP sockets.
//
// A [CommandChannel] owns one bound socket, one destination resolved at
// construction and a 16-bit sequence counter. [CommandChannel.SendCommand]
// is fire-and-forget: it hands a 6-byte datagram to the kernel and returns.
// The channel is meant for a single control loop goroutine.
package udp
