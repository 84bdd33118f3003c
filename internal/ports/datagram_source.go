package ports

import (
	"context"
	"net"

	"github.com/bft-labs/rcdrive/internal/domain"
)

// Packet is one datagram read from the wire.
type Packet struct {
	From     net.Addr
	Datagram domain.Datagram
	// Err is set when the payload was not a valid command datagram.
	Err error
	// Size is the payload length in bytes.
	Size int
}

// DatagramSource yields received command datagrams. It never replies.
type DatagramSource interface {
	// Receive blocks for the next datagram. A malformed payload is a Packet
	// with Err set, not an error. Returns ctx.Err() once ctx is canceled.
	Receive(ctx context.Context) (Packet, error)
}
