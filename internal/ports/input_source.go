package ports

import (
	"context"

	"github.com/bft-labs/rcdrive/internal/domain"
)

// InputSource delivers driver input. The control loop calls Next to block
// for the next key press, key release or quit, then Snapshot to read every
// key at once.
type InputSource interface {
	// Next blocks until the held keys change or the driver quits.
	// Returns ctx.Err() if the context is canceled first, when the
	// source can observe it.
	Next(ctx context.Context) (domain.InputEvent, error)

	// Snapshot reports the keys held right now. It never blocks.
	Snapshot() domain.KeySnapshot
}
