package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/rcdrive/internal/domain"
)

// Script replays key events from line-oriented text:
//
//	# comment
//	down forward
//	down turn-left
//	up forward
//	quit
//
// Blank lines and lines starting with '#' are ignored. Reaching the end of
// the script yields a quit event unless the script follows a file.
type Script struct {
	rd   *bufio.Reader
	line int

	mu   sync.Mutex
	held domain.KeySet

	// follow mode
	file    *os.File
	watcher *fsnotify.Watcher
	partial string
}

// NewScript reads events from r.
func NewScript(r io.Reader) *Script {
	return &Script{rd: bufio.NewReader(r)}
}

// OpenScript opens a script file. With follow set, Next waits for lines
// appended to the file instead of quitting at end of file, so another
// process can steer by appending to it. A file that is truncated or
// replaced at the same path is read again from the start.
func OpenScript(path string, follow bool) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s := NewScript(f)
	s.file = f
	if !follow {
		return s, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so a file replaced by rename is noticed.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		f.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	s.watcher = w
	return s, nil
}

// Next returns the next event from the script.
func (s *Script) Next(ctx context.Context) (domain.InputEvent, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.InputEvent{}, err
		}

		text, err := s.rd.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return domain.InputEvent{}, fmt.Errorf("read script: %w", err)
		}
		if errors.Is(err, io.EOF) {
			if s.watcher == nil {
				if text == "" {
					return domain.InputEvent{Kind: domain.EventQuit}, nil
				}
			} else {
				// An unterminated line may still be being written.
				s.partial += text
				if werr := s.waitForWrite(ctx); werr != nil {
					return domain.InputEvent{}, werr
				}
				continue
			}
		}

		text = s.partial + text
		s.partial = ""
		s.line++

		ev, ok, perr := parseLine(text)
		if perr != nil {
			return domain.InputEvent{}, fmt.Errorf("script line %d: %w", s.line, perr)
		}
		if !ok {
			continue
		}
		s.apply(ev)
		return ev, nil
	}
}

// apply updates the held keys. A repeated down or up is still reported to
// the caller, like keyboard auto-repeat.
func (s *Script) apply(ev domain.InputEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case domain.EventKeyDown:
		s.held = s.held.With(ev.Key)
	case domain.EventKeyUp:
		s.held = s.held.Without(ev.Key)
	}
}

func (s *Script) waitForWrite(ctx context.Context) error {
	name := filepath.Clean(s.file.Name())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return io.ErrUnexpectedEOF
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create):
				// Replaced by rename or delete-and-create.
				return s.reopen()
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				return fmt.Errorf("script %s was removed", name)
			case ev.Has(fsnotify.Write):
				return s.rewindIfTruncated()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return io.ErrUnexpectedEOF
			}
			return fmt.Errorf("watch script: %w", err)
		}
	}
}

// reopen switches to the file now at the script path and reads it from the
// start.
func (s *Script) reopen() error {
	f, err := os.Open(s.file.Name())
	if err != nil {
		return fmt.Errorf("reopen script: %w", err)
	}
	s.file.Close()
	s.file = f
	s.restart()
	return nil
}

// rewindIfTruncated reads the file from the start again when it shrank below
// the read offset. The reader is drained at this point, so the file offset
// is the consumed offset.
func (s *Script) rewindIfTruncated() error {
	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("stat script: %w", err)
	}
	off, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("seek script: %w", err)
	}
	if info.Size() >= off {
		return nil
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek script: %w", err)
	}
	s.restart()
	return nil
}

func (s *Script) restart() {
	s.rd.Reset(s.file)
	s.partial = ""
	s.line = 0
}

// Snapshot returns the keys held after the last event.
func (s *Script) Snapshot() domain.KeySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// Close releases the watcher and file, if any.
func (s *Script) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	return errors.Join(errs...)
}

// parseLine returns ok=false for blank and comment lines.
func parseLine(text string) (domain.InputEvent, bool, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return domain.InputEvent{}, false, nil
	}

	verb := strings.ToLower(fields[0])
	switch verb {
	case "quit":
		if len(fields) != 1 {
			return domain.InputEvent{}, false, fmt.Errorf("quit takes no arguments")
		}
		return domain.InputEvent{Kind: domain.EventQuit}, true, nil
	case "down", "up":
		if len(fields) != 2 {
			return domain.InputEvent{}, false, fmt.Errorf("%s needs exactly one key", verb)
		}
		key, err := domain.ParseKey(fields[1])
		if err != nil {
			return domain.InputEvent{}, false, err
		}
		kind := domain.EventKeyDown
		if verb == "up" {
			kind = domain.EventKeyUp
		}
		return domain.InputEvent{Kind: kind, Key: key}, true, nil
	default:
		return domain.InputEvent{}, false, fmt.Errorf("unknown command %q", fields[0])
	}
}
