package domain

import (
	"fmt"
	"strings"
)

// Key is a logical driving key, independent of the physical input device.
type Key uint8

const (
	KeyForward Key = iota
	KeyBack
	KeyTurnLeft
	KeyTurnRight

	numKeys
)

// AllKeys lists the four logical keys.
var AllKeys = [...]Key{KeyForward, KeyBack, KeyTurnLeft, KeyTurnRight}

var keyNames = [...]string{
	KeyForward:   "forward",
	KeyBack:      "back",
	KeyTurnLeft:  "turn-left",
	KeyTurnRight: "turn-right",
}

// String returns the canonical key name used in scripts and config files.
func (k Key) String() string {
	if k < numKeys {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// ParseKey parses a key name. Matching is case-insensitive and accepts
// "left"/"right" as short forms of the turn keys.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward":
		return KeyForward, nil
	case "back", "reverse":
		return KeyBack, nil
	case "turn-left", "left":
		return KeyTurnLeft, nil
	case "turn-right", "right":
		return KeyTurnRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// KeySnapshot answers whether a logical key is currently held.
type KeySnapshot interface {
	Held(k Key) bool
}

// KeySet is a KeySnapshot backed by a bitset. The zero value holds no keys.
type KeySet uint8

// NewKeySet returns a set holding the given keys.
func NewKeySet(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

// Held implements KeySnapshot.
func (s KeySet) Held(k Key) bool {
	return k < numKeys && s&(1<<k) != 0
}

// With returns a copy of s with k held.
func (s KeySet) With(k Key) KeySet {
	if k >= numKeys {
		return s
	}
	return s | 1<<k
}

// Without returns a copy of s with k released.
func (s KeySet) Without(k Key) KeySet {
	if k >= numKeys {
		return s
	}
	return s &^ (1 << k)
}

// String lists the held keys, e.g. "forward+turn-left", or "none".
func (s KeySet) String() string {
	var held []string
	for _, k := range AllKeys {
		if s.Held(k) {
			held = append(held, k.String())
		}
	}
	if len(held) == 0 {
		return "none"
	}
	return strings.Join(held, "+")
}

// EventKind distinguishes input notifications.
type EventKind uint8

const (
	EventKeyDown EventKind = iota + 1
	EventKeyUp
	EventQuit
)

// String returns a human-readable representation of the kind.
func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "down"
	case EventKeyUp:
		return "up"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// InputEvent is a single notification from an input source.
// Key is meaningless for EventQuit.
type InputEvent struct {
	Kind EventKind
	Key  Key
}
