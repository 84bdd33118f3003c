package udp

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"sync"

	"github.com/bft-labs/rcdrive/internal/ports"
)

// memConn records written datagrams and can be told to fail writes.
type memConn struct {
	mu       sync.Mutex
	local    net.Addr
	writes   [][]byte
	dests    []net.Addr
	writeErr error
	shortBy  int
	closed   bool
}

func (c *memConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.writes = append(c.writes, append([]byte(nil), p...))
	c.dests = append(c.dests, addr)
	return len(p) - c.shortBy, nil
}

func (c *memConn) ReadFrom(p []byte) (int, net.Addr, error) {
	return 0, nil, errors.New("memConn: read not supported")
}

func (c *memConn) LocalAddr() net.Addr { return c.local }

func (c *memConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *memConn) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.writes...)
}

// memTransport resolves from a fixed table and binds to a memConn.
type memTransport struct {
	addrs   map[string]net.Addr
	conn    *memConn
	bindErr error

	resolveCalls int
	bindCalls    int
}

func newMemTransport() *memTransport {
	return &memTransport{
		addrs: map[string]net.Addr{
			"car.local:9000": net.UDPAddrFromAddrPort(netip.MustParseAddrPort("192.0.2.10:9000")),
		},
		conn: &memConn{local: net.UDPAddrFromAddrPort(netip.MustParseAddrPort("127.0.0.1:40000"))},
	}
}

func (t *memTransport) Resolve(ctx context.Context, network, address string) (net.Addr, error) {
	t.resolveCalls++
	if a, ok := t.addrs[address]; ok {
		return a, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: address, IsNotFound: true}
}

func (t *memTransport) Bind(ctx context.Context, network, address string) (ports.DatagramConn, error) {
	t.bindCalls++
	if t.bindErr != nil {
		return nil, t.bindErr
	}
	return t.conn, nil
}

// stubResolver answers LookupNetIP from a table.
type stubResolver struct {
	hosts   map[string][]netip.Addr
	lastNet string
}

func (r *stubResolver) LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error) {
	r.lastNet = network
	addrs, ok := r.hosts[host]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	return addrs, nil
}

func (r *stubResolver) LookupPort(ctx context.Context, network, service string) (int, error) {
	return net.DefaultResolver.LookupPort(ctx, network, service)
}
