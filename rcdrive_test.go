package rcdrive_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/rcdrive"
)

// memConn records written datagrams.
type memConn struct {
	mu      sync.Mutex
	writes  [][]byte
	failing bool
	closed  bool
}

func (c *memConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	if c.failing {
		return 0, errors.New("network is unreachable")
	}
	c.writes = append(c.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (c *memConn) ReadFrom(p []byte) (int, net.Addr, error) {
	return 0, nil, errors.New("not supported")
}

func (c *memConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}
}

func (c *memConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *memConn) datagrams(t *testing.T) []rcdrive.Datagram {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]rcdrive.Datagram, 0, len(c.writes))
	for _, w := range c.writes {
		d, err := rcdrive.DecodeDatagram(w)
		require.NoError(t, err)
		out = append(out, d)
	}
	return out
}

type memTransport struct {
	conn       *memConn
	resolveErr error
	bindErr    error
}

var carAddr = &net.UDPAddr{IP: net.IPv4(192, 0, 2, 10), Port: 9000}

func (tr *memTransport) Resolve(ctx context.Context, network, address string) (net.Addr, error) {
	if tr.resolveErr != nil {
		return nil, tr.resolveErr
	}
	return carAddr, nil
}

func (tr *memTransport) Bind(ctx context.Context, network, address string) (rcdrive.DatagramConn, error) {
	if tr.bindErr != nil {
		return nil, tr.bindErr
	}
	return tr.conn, nil
}

// blockingInput sends one key press then blocks until ctx is done.
type blockingInput struct {
	sent bool
	held rcdrive.KeySet
}

func (b *blockingInput) Next(ctx context.Context) (rcdrive.InputEvent, error) {
	if !b.sent {
		b.sent = true
		b.held = b.held.With(rcdrive.KeyBack)
		return rcdrive.InputEvent{Kind: rcdrive.EventKeyDown, Key: rcdrive.KeyBack}, nil
	}
	<-ctx.Done()
	return rcdrive.InputEvent{}, ctx.Err()
}

func (b *blockingInput) Snapshot() rcdrive.KeySnapshot {
	return b.held
}

type stateRecorder struct {
	rcdrive.BaseEventHandler
	mu     sync.Mutex
	states []rcdrive.State
	errs   []rcdrive.SendErrorEvent
}

func (r *stateRecorder) OnStateChange(ev rcdrive.StateChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, ev.Current)
}

func (r *stateRecorder) OnSendError(ev rcdrive.SendErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, ev)
}

func testConfig() rcdrive.Config {
	return rcdrive.Config{LocalAddr: "0.0.0.0:9001", RemoteAddr: "car.local:9000"}
}

func script(lines ...string) rcdrive.InputSource {
	return rcdrive.NewScriptInput(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestNew_Validation(t *testing.T) {
	tr := &memTransport{conn: &memConn{}}

	_, err := rcdrive.New(context.Background(), rcdrive.Config{RemoteAddr: "car:1"}, script("quit"), rcdrive.WithTransport(tr))
	assert.ErrorContains(t, err, "local address")

	_, err = rcdrive.New(context.Background(), rcdrive.Config{LocalAddr: ":1"}, script("quit"), rcdrive.WithTransport(tr))
	assert.ErrorContains(t, err, "remote address")

	cfg := testConfig()
	cfg.Network = "tcp"
	_, err = rcdrive.New(context.Background(), cfg, script("quit"), rcdrive.WithTransport(tr))
	assert.ErrorContains(t, err, "unsupported network")

	_, err = rcdrive.New(context.Background(), testConfig(), nil, rcdrive.WithTransport(tr))
	assert.ErrorContains(t, err, "input source")
}

func TestNew_StartupErrors(t *testing.T) {
	_, err := rcdrive.New(context.Background(), testConfig(), script("quit"),
		rcdrive.WithTransport(&memTransport{resolveErr: errors.New("no such host")}))
	assert.ErrorIs(t, err, rcdrive.ErrAddressResolution)

	_, err = rcdrive.New(context.Background(), testConfig(), script("quit"),
		rcdrive.WithTransport(&memTransport{bindErr: errors.New("address already in use")}))
	assert.ErrorIs(t, err, rcdrive.ErrBind)
}

func TestDefaultConfig(t *testing.T) {
	cfg := rcdrive.DefaultConfig()
	assert.Equal(t, rcdrive.DefaultNetwork, cfg.Network)
	assert.Equal(t, rcdrive.DefaultResolveTimeout, cfg.ResolveTimeout)

	var zero rcdrive.Config
	zero.SetDefaults()
	assert.Equal(t, cfg, zero)
}

func TestDriver_RunScript(t *testing.T) {
	conn := &memConn{}
	rec := &stateRecorder{}

	d, err := rcdrive.New(context.Background(), testConfig(),
		script("down forward", "down turn-left", "up turn-left", "up forward", "quit"),
		rcdrive.WithTransport(&memTransport{conn: conn}),
		rcdrive.WithEventHandler(rec),
	)
	require.NoError(t, err)
	assert.Equal(t, carAddr.String(), d.Destination().String())
	assert.Equal(t, rcdrive.StateIdle, d.Status())

	require.NoError(t, d.Run(context.Background()))

	assert.Equal(t, []rcdrive.Datagram{
		{Sequence: 0, Left: 0, Right: 0},
		{Sequence: 1, Left: 90, Right: 0},
		{Sequence: 2, Left: 0, Right: 0},
		{Sequence: 3, Left: 90, Right: 90},
	}, conn.datagrams(t))
	assert.Equal(t, uint16(4), d.Sequence())
	assert.Equal(t, rcdrive.StateStopped, d.Status())
	assert.Equal(t, []rcdrive.State{rcdrive.StateDriving, rcdrive.StateStopped}, rec.states)
	assert.True(t, conn.closed, "socket released after Run")

	assert.ErrorIs(t, d.Run(context.Background()), rcdrive.ErrClosed)
	assert.NoError(t, d.Close())
}

func TestDriver_SendFailureContinues(t *testing.T) {
	conn := &memConn{failing: true}
	rec := &stateRecorder{}

	d, err := rcdrive.New(context.Background(), testConfig(),
		script("down back", "up back", "quit"),
		rcdrive.WithTransport(&memTransport{conn: conn}),
		rcdrive.WithEventHandler(rec),
	)
	require.NoError(t, err)

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, rec.errs, 2)
	assert.Equal(t, uint16(0), rec.errs[0].Sequence)
	assert.Equal(t, uint16(1), rec.errs[1].Sequence)
	assert.ErrorIs(t, rec.errs[0].Error, rcdrive.ErrSend)
	assert.Equal(t, uint16(2), d.Sequence())
}

func TestDriver_SendFailureFatal(t *testing.T) {
	conn := &memConn{failing: true}
	cfg := testConfig()
	cfg.FatalSendErrors = true

	d, err := rcdrive.New(context.Background(), cfg, script("down back", "up back", "quit"),
		rcdrive.WithTransport(&memTransport{conn: conn}))
	require.NoError(t, err)

	err = d.Run(context.Background())
	assert.ErrorIs(t, err, rcdrive.ErrSend)
	assert.Equal(t, rcdrive.StateFailed, d.Status())
	assert.Equal(t, uint16(1), d.Sequence())
}

func TestDriver_CloseWhileRunning(t *testing.T) {
	conn := &memConn{}
	d, err := rcdrive.New(context.Background(), testConfig(), &blockingInput{},
		rcdrive.WithTransport(&memTransport{conn: conn}))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return len(conn.writes) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, d.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Equal(t, rcdrive.StateStopped, d.Status())
	assert.Equal(t, []rcdrive.Datagram{{Sequence: 0, Left: 180, Right: 180}}, conn.datagrams(t))
}

func TestDriver_ContextCanceled(t *testing.T) {
	d, err := rcdrive.New(context.Background(), testConfig(), &blockingInput{},
		rcdrive.WithTransport(&memTransport{conn: &memConn{}}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = d.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, rcdrive.StateStopped, d.Status())
}

func TestDriver_CloseIdle(t *testing.T) {
	conn := &memConn{}
	d, err := rcdrive.New(context.Background(), testConfig(), script("quit"),
		rcdrive.WithTransport(&memTransport{conn: conn}))
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.True(t, conn.closed)
	assert.ErrorIs(t, d.Run(context.Background()), rcdrive.ErrClosed)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", rcdrive.StateIdle.String())
	assert.Equal(t, "Driving", rcdrive.StateDriving.String())
	assert.Equal(t, "Failed", rcdrive.StateFailed.String())
}
