package app

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/bft-labs/rcdrive/internal/domain"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// mockLogger implements ports.Logger and records messages by level.
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields []ports.Field
}

func (m *mockLogger) record(level, msg string, fields []ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level, msg, fields})
}

func (m *mockLogger) Debug(msg string, fields ...ports.Field) { m.record("debug", msg, fields) }
func (m *mockLogger) Info(msg string, fields ...ports.Field)  { m.record("info", msg, fields) }
func (m *mockLogger) Warn(msg string, fields ...ports.Field)  { m.record("warn", msg, fields) }
func (m *mockLogger) Error(msg string, fields ...ports.Field) { m.record("error", msg, fields) }

func (m *mockLogger) messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.entries {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}

func (m *mockLogger) entriesAt(level string) []logEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []logEntry
	for _, e := range m.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

// fieldValue returns the value logged under key, or nil.
func fieldValue(e logEntry, key string) interface{} {
	for _, f := range e.fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// scriptedInput replays events, applying each to its snapshot as Next
// returns it. After the last event Next blocks until ctx is done.
type scriptedInput struct {
	events []domain.InputEvent
	held   domain.KeySet
	err    error
}

func newScriptedInput(events ...domain.InputEvent) *scriptedInput {
	return &scriptedInput{events: events}
}

func (s *scriptedInput) Next(ctx context.Context) (domain.InputEvent, error) {
	if len(s.events) == 0 {
		if s.err != nil {
			return domain.InputEvent{}, s.err
		}
		<-ctx.Done()
		return domain.InputEvent{}, ctx.Err()
	}
	ev := s.events[0]
	s.events = s.events[1:]
	switch ev.Kind {
	case domain.EventKeyDown:
		s.held = s.held.With(ev.Key)
	case domain.EventKeyUp:
		s.held = s.held.Without(ev.Key)
	}
	return ev, nil
}

func (s *scriptedInput) Snapshot() domain.KeySnapshot {
	return s.held
}

func down(k domain.Key) domain.InputEvent {
	return domain.InputEvent{Kind: domain.EventKeyDown, Key: k}
}

func up(k domain.Key) domain.InputEvent {
	return domain.InputEvent{Kind: domain.EventKeyUp, Key: k}
}

func quit() domain.InputEvent {
	return domain.InputEvent{Kind: domain.EventQuit}
}

// recordingSender implements ports.CommandSender. failAt lists sequence
// numbers whose send fails.
type recordingSender struct {
	seq    uint16
	sent   []domain.Datagram
	failAt map[uint16]bool
}

var errUnreachable = errors.New("network unreachable")

func (r *recordingSender) SendCommand(left, right uint16) error {
	seq := r.seq
	r.seq++
	if r.failAt[seq] {
		return errors.Join(domain.ErrSend, errUnreachable)
	}
	r.sent = append(r.sent, domain.Datagram{Sequence: seq, Left: left, Right: right})
	return nil
}

func (r *recordingSender) Sequence() uint16 {
	return r.seq
}

// recordingEmitter implements CommandEventEmitter.
type recordingEmitter struct {
	states     []domain.DrivingState
	seqs       []uint16
	failedSeqs []uint16
}

func (r *recordingEmitter) OnCommand(state domain.DrivingState, cmd domain.MotorCommand, seq uint16) {
	r.states = append(r.states, state)
	r.seqs = append(r.seqs, seq)
}

func (r *recordingEmitter) OnSendError(err error, seq uint16) {
	r.failedSeqs = append(r.failedSeqs, seq)
}

// packetSource implements ports.DatagramSource from a fixed list.
type packetSource struct {
	packets []ports.Packet
	err     error
}

func (p *packetSource) Receive(ctx context.Context) (ports.Packet, error) {
	if len(p.packets) == 0 {
		if p.err != nil {
			return ports.Packet{}, p.err
		}
		return ports.Packet{}, context.Canceled
	}
	pkt := p.packets[0]
	p.packets = p.packets[1:]
	return pkt, nil
}

var carAddr = &net.UDPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 9001}

func pkt(seq, left, right uint16) ports.Packet {
	return ports.Packet{
		From:     carAddr,
		Datagram: domain.Datagram{Sequence: seq, Left: left, Right: right},
		Size:     domain.DatagramSize,
	}
}
