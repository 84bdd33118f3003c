package udp

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/bft-labs/rcdrive/internal/ports"
)

// Networks accepted by NetTransport.
const (
	NetworkUDP  = "udp"
	NetworkUDP4 = "udp4"
	NetworkUDP6 = "udp6"
)

// HostResolver looks up the addresses of a host name.
// *net.Resolver satisfies this interface.
type HostResolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
	LookupPort(ctx context.Context, network, service string) (int, error)
}

// NetTransport implements ports.Transport with the operating system's
// resolver and sockets.
type NetTransport struct {
	resolver HostResolver
	listen   net.ListenConfig
}

// NewNetTransport creates a transport using net.DefaultResolver.
func NewNetTransport() *NetTransport {
	return &NetTransport{resolver: net.DefaultResolver}
}

// NewNetTransportWithResolver creates a transport using the given resolver.
func NewNetTransportWithResolver(r HostResolver) *NetTransport {
	return &NetTransport{resolver: r}
}

// Resolve parses host:port and returns the first address the host resolves
// to. IP literals are used as-is without a lookup.
func (t *NetTransport) Resolve(ctx context.Context, network, address string) (net.Addr, error) {
	ipNet, err := ipNetwork(network)
	if err != nil {
		return nil, err
	}

	host, service, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	if host == "" {
		return nil, fmt.Errorf("missing host in %q", address)
	}

	port, err := t.resolver.LookupPort(ctx, network, service)
	if err != nil {
		return nil, err
	}

	ip, err := netip.ParseAddr(strings.Trim(host, "[]"))
	if err != nil {
		addrs, lookupErr := t.resolver.LookupNetIP(ctx, ipNet, host)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if len(addrs) == 0 {
			return nil, fmt.Errorf("no addresses for %q", host)
		}
		ip = addrs[0]
	}
	if ip.Is4In6() {
		ip = ip.Unmap()
	}
	if network == NetworkUDP4 && !ip.Is4() || network == NetworkUDP6 && ip.Is4() {
		return nil, fmt.Errorf("address %s does not match network %s", ip, network)
	}

	return net.UDPAddrFromAddrPort(netip.AddrPortFrom(ip, uint16(port))), nil
}

// Bind opens a UDP socket on the local address.
func (t *NetTransport) Bind(ctx context.Context, network, address string) (ports.DatagramConn, error) {
	if _, err := ipNetwork(network); err != nil {
		return nil, err
	}
	pc, err := t.listen.ListenPacket(ctx, network, address)
	if err != nil {
		return nil, err
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, fmt.Errorf("unexpected socket type %T", pc)
	}
	return conn, nil
}

func ipNetwork(network string) (string, error) {
	switch network {
	case NetworkUDP:
		return "ip", nil
	case NetworkUDP4:
		return "ip4", nil
	case NetworkUDP6:
		return "ip6", nil
	}
	return "", fmt.Errorf("unsupported network %q", network)
}
