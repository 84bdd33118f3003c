package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/bft-labs/rcdrive/internal/domain"
)

// Terminal reads keystrokes from a terminal in raw mode.
//
// Terminals report key presses but not releases, so each bound key toggles:
// the first press holds it, the next press releases it. The stop key
// releases everything at once.
type Terminal struct {
	in     *bufio.Reader
	keymap Keymap

	mu   sync.Mutex
	held domain.KeySet

	restore func() error
}

// NewTerminal wraps r without touching terminal modes. Use OpenTerminal for
// an interactive session.
func NewTerminal(r io.Reader, km Keymap) *Terminal {
	return &Terminal{
		in:      bufio.NewReader(r),
		keymap:  km,
		restore: func() error { return nil },
	}
}

// OpenTerminal puts f into raw mode and reads keystrokes from it.
// Close restores the previous mode.
func OpenTerminal(f *os.File, km Keymap) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", f.Name())
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	t := NewTerminal(f, km)
	t.restore = func() error { return term.Restore(fd, old) }
	return t, nil
}

// Next blocks for the next keystroke that changes the held keys.
// Unbound keys are skipped. EOF on the input is treated as quit.
// The read itself cannot be interrupted; ctx is checked between keystrokes.
func (t *Terminal) Next(ctx context.Context) (domain.InputEvent, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.InputEvent{}, err
		}

		r, _, err := t.in.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.InputEvent{Kind: domain.EventQuit}, nil
			}
			return domain.InputEvent{}, fmt.Errorf("read terminal: %w", err)
		}

		if ev, ok := t.apply(r); ok {
			return ev, nil
		}
	}
}

func (t *Terminal) apply(r rune) (domain.InputEvent, bool) {
	if t.keymap.IsQuit(r) {
		return domain.InputEvent{Kind: domain.EventQuit}, true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.keymap.IsStop(r) {
		if t.held == 0 {
			return domain.InputEvent{}, false
		}
		var released domain.Key
		for _, k := range domain.AllKeys {
			if t.held.Held(k) {
				released = k
				break
			}
		}
		t.held = 0
		return domain.InputEvent{Kind: domain.EventKeyUp, Key: released}, true
	}

	k, ok := t.keymap.Key(r)
	if !ok {
		return domain.InputEvent{}, false
	}
	if t.held.Held(k) {
		t.held = t.held.Without(k)
		return domain.InputEvent{Kind: domain.EventKeyUp, Key: k}, true
	}
	t.held = t.held.With(k)
	return domain.InputEvent{Kind: domain.EventKeyDown, Key: k}, true
}

// Snapshot returns the keys currently toggled on.
func (t *Terminal) Snapshot() domain.KeySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held
}

// Close restores the terminal mode.
func (t *Terminal) Close() error {
	return t.restore()
}

// NewlineWriter rewrites "\n" as "\r\n". A raw-mode terminal does not return
// the carriage on a bare line feed, so log output written while driving
// would otherwise drift to the right.
type NewlineWriter struct {
	W io.Writer
}

// Write implements io.Writer. It reports len(p) on success.
func (w NewlineWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+8)
	for i, b := range p {
		if b == '\n' && (i == 0 || p[i-1] != '\r') {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := w.W.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
