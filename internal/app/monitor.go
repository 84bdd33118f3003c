package app

import (
	"context"
	"errors"

	"github.com/bft-labs/rcdrive/internal/domain"
	"github.com/bft-labs/rcdrive/internal/ports"
)

// Monitor logs received command datagrams and tracks sequence gaps.
type Monitor struct {
	source  ports.DatagramSource
	logger  ports.Logger
	tracker domain.SequenceTracker
}

// NewMonitor creates a monitor reading from source.
func NewMonitor(source ports.DatagramSource, logger ports.Logger) *Monitor {
	return &Monitor{source: source, logger: logger}
}

// Run receives until ctx is canceled or the source fails. Cancellation is a
// clean exit and returns nil. The final counters are logged either way.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.logStats()

	for {
		pkt, err := m.source.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		m.handle(pkt)
	}
}

// Stats returns the counters accumulated so far.
func (m *Monitor) Stats() domain.SequenceStats {
	return m.tracker.Stats()
}

func (m *Monitor) handle(pkt ports.Packet) {
	if pkt.Err != nil {
		m.logger.Warn("malformed datagram",
			ports.Stringer("from", pkt.From),
			ports.Int("size", pkt.Size),
			ports.Err(pkt.Err),
		)
		return
	}

	d := pkt.Datagram
	arrival, missed := m.tracker.Observe(d.Sequence)
	fields := []ports.Field{
		ports.Uint16("seq", d.Sequence),
		ports.Uint16("left", d.Left),
		ports.Uint16("right", d.Right),
		ports.String("arrival", arrival.String()),
		ports.Stringer("from", pkt.From),
	}

	inRange := d.Command().InRange()
	if !inRange {
		fields = append(fields, ports.Bool("out_of_range", true))
	}

	switch arrival {
	case domain.ArrivalGap:
		m.logger.Warn("datagram", append(fields, ports.Uint16("missed", missed))...)
	case domain.ArrivalDuplicate, domain.ArrivalLate:
		m.logger.Warn("datagram", fields...)
	default:
		if !inRange {
			m.logger.Warn("datagram", fields...)
		} else {
			m.logger.Info("datagram", fields...)
		}
	}
}

func (m *Monitor) logStats() {
	s := m.tracker.Stats()
	m.logger.Info("monitor stopped",
		ports.Uint64("received", s.Received),
		ports.Uint64("in_order", s.InOrder),
		ports.Uint64("lost", s.Lost),
		ports.Uint64("duplicates", s.Duplicates),
		ports.Uint64("late", s.Late),
	)
}
