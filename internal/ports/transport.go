package ports

import (
	"context"
	"net"
)

// DatagramConn is a bound, connectionless datagram socket.
// *net.UDPConn satisfies this interface.
type DatagramConn interface {
	WriteTo(p []byte, addr net.Addr) (int, error)
	ReadFrom(p []byte) (int, net.Addr, error)
	LocalAddr() net.Addr
	Close() error
}

// Transport supplies the network capabilities a command channel needs.
type Transport interface {
	// Resolve turns a textual host:port into one concrete address.
	// When a name has several addresses the first is returned.
	Resolve(ctx context.Context, network, address string) (net.Addr, error)

	// Bind opens a datagram socket on the local address.
	Bind(ctx context.Context, network, address string) (DatagramConn, error)
}
