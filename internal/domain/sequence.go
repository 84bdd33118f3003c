package domain

// SequenceDistance returns how far next is ahead of prev modulo 65536.
// A result of 1 means next directly follows prev.
func SequenceDistance(prev, next uint16) uint16 {
	return next - prev
}

// Arrival classifies a received datagram relative to the newest one seen.
type Arrival uint8

const (
	ArrivalFirst Arrival = iota
	ArrivalInOrder
	ArrivalGap
	ArrivalDuplicate
	ArrivalLate
)

// String returns a human-readable representation of the arrival.
func (a Arrival) String() string {
	switch a {
	case ArrivalFirst:
		return "first"
	case ArrivalInOrder:
		return "in-order"
	case ArrivalGap:
		return "gap"
	case ArrivalDuplicate:
		return "duplicate"
	case ArrivalLate:
		return "late"
	default:
		return "unknown"
	}
}

// lateWindow splits the sequence space: distances at or above it are
// treated as stale datagrams rather than a forward jump.
const lateWindow = 1 << 15

// SequenceStats counts arrivals seen by a SequenceTracker.
type SequenceStats struct {
	Received   uint64
	InOrder    uint64
	Lost       uint64
	Duplicates uint64
	Late       uint64
}

// SequenceTracker detects loss and reordering on a receiver.
// It keeps the newest sequence number and is not safe for concurrent use.
type SequenceTracker struct {
	started bool
	newest  uint16
	stats   SequenceStats
}

// Observe records seq and reports how it arrived. For ArrivalGap, missed is
// the number of sequence numbers skipped. Late datagrams do not move the
// newest marker, so a receiver applying last-write-wins can drop them.
func (t *SequenceTracker) Observe(seq uint16) (arrival Arrival, missed uint16) {
	t.stats.Received++
	if !t.started {
		t.started = true
		t.newest = seq
		t.stats.InOrder++
		return ArrivalFirst, 0
	}

	d := SequenceDistance(t.newest, seq)
	switch {
	case d == 0:
		t.stats.Duplicates++
		return ArrivalDuplicate, 0
	case d == 1:
		t.newest = seq
		t.stats.InOrder++
		return ArrivalInOrder, 0
	case d < lateWindow:
		t.newest = seq
		t.stats.InOrder++
		t.stats.Lost += uint64(d - 1)
		return ArrivalGap, d - 1
	default:
		t.stats.Late++
		return ArrivalLate, 0
	}
}

// Newest returns the newest sequence number and whether any was observed.
func (t *SequenceTracker) Newest() (uint16, bool) {
	return t.newest, t.started
}

// Stats returns the counters accumulated so far.
func (t *SequenceTracker) Stats() SequenceStats {
	return t.stats
}
