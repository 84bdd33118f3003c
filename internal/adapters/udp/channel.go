package udp

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/bft-labs/rcdrive/internal/domain"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// CommandChannel implements ports.CommandSender over a bound datagram socket.
// It is not safe for concurrent use.
type CommandChannel struct {
	conn ports.DatagramConn
	dest net.Addr
	seq  uint16
	buf  []byte
}

// NewCommandChannel resolves dest once and binds local.
// Resolution failures wrap domain.ErrAddressResolution and bind failures wrap
// domain.ErrBind. A destination that resolves but is unreachable is not an
// error here; it surfaces on SendCommand.
func NewCommandChannel(ctx context.Context, transport ports.Transport, network, local, dest string) (*CommandChannel, error) {
	addr, err := transport.Resolve(ctx, network, dest)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrAddressResolution, dest, err)
	}

	conn, err := transport.Bind(ctx, network, local)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrBind, local, err)
	}

	return &CommandChannel{
		conn: conn,
		dest: addr,
		buf:  make([]byte, 0, domain.DatagramSize),
	}, nil
}

// SendCommand writes [seq, left, right] to the destination and advances the
// sequence counter, even when the write fails.
func (c *CommandChannel) SendCommand(left, right uint16) error {
	seq := c.seq
	c.seq++

	c.buf = domain.Datagram{Sequence: seq, Left: left, Right: right}.AppendBinary(c.buf[:0])
	n, err := c.conn.WriteTo(c.buf, c.dest)
	if err == nil && n != len(c.buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("%w: seq %d to %s: %w", domain.ErrSend, seq, c.dest, err)
	}
	return nil
}

// Sequence returns the sequence number of the next datagram.
func (c *CommandChannel) Sequence() uint16 {
	return c.seq
}

// Destination returns the resolved destination address.
func (c *CommandChannel) Destination() net.Addr {
	return c.dest
}

// LocalAddr returns the bound local address.
func (c *CommandChannel) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Close releases the socket. No message is sent to the receiver.
func (c *CommandChannel) Close() error {
	return c.conn.Close()
}
