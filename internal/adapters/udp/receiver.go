package udp

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/bft-labs/rcdrive/internal/domain"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// maxPacket bounds reads so oversized datagrams are detected rather than
// silently truncated to DatagramSize.
const maxPacket = 1500

// Receiver reads command datagrams from a bound socket and implements
// ports.DatagramSource. It never replies.
type Receiver struct {
	conn ports.DatagramConn
	buf  []byte
}

// NewReceiver binds address for receiving.
func NewReceiver(ctx context.Context, transport ports.Transport, network, address string) (*Receiver, error) {
	conn, err := transport.Bind(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrBind, address, err)
	}
	return &Receiver{conn: conn, buf: make([]byte, maxPacket)}, nil
}

// Receive blocks for the next datagram. A malformed payload is returned as
// a Packet with Err set, not as an error. Canceling ctx closes the socket and
// Receive returns ctx.Err().
func (r *Receiver) Receive(ctx context.Context) (ports.Packet, error) {
	stop := context.AfterFunc(ctx, func() { r.conn.Close() })
	defer stop()

	n, from, err := r.conn.ReadFrom(r.buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ports.Packet{}, ctxErr
		}
		if errors.Is(err, net.ErrClosed) {
			return ports.Packet{}, err
		}
		return ports.Packet{}, fmt.Errorf("read datagram: %w", err)
	}

	d, decodeErr := domain.DecodeDatagram(r.buf[:n])
	return ports.Packet{From: from, Datagram: d, Err: decodeErr, Size: n}, nil
}

// LocalAddr returns the bound address.
func (r *Receiver) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}

// Close releases the socket.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
