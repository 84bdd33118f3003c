package input

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bft-labs/rcdrive/internal/domain"
)

// Action names accepted by ParseKeymap in addition to key names.
const (
	ActionStop = "stop"
	ActionQuit = "quit"
)

const ctrlC = 0x03

// Keymap binds terminal runes to logical keys and control actions.
type Keymap struct {
	keys map[rune]domain.Key
	stop map[rune]bool
	quit map[rune]bool
}

// DefaultKeymap returns WASD driving, space to release all keys and q or
// Ctrl-C to quit.
func DefaultKeymap() Keymap {
	return Keymap{
		keys: map[rune]domain.Key{
			'w': domain.KeyForward,
			's': domain.KeyBack,
			'a': domain.KeyTurnLeft,
			'd': domain.KeyTurnRight,
		},
		stop: map[rune]bool{' ': true},
		quit: map[rune]bool{'q': true, ctrlC: true},
	}
}

// ParseKeymap builds a keymap from action → characters bindings, e.g.
// {"forward": "w", "back": "s", "turn-left": "a", "turn-right": "d",
// "stop": " ", "quit": "q"}. Each value may list several characters.
// Actions missing from bindings keep their default binding. Ctrl-C always
// quits.
func ParseKeymap(bindings map[string]string) (Keymap, error) {
	km := DefaultKeymap()
	if len(bindings) == 0 {
		return km, nil
	}

	actions := make([]string, 0, len(bindings))
	for a := range bindings {
		actions = append(actions, a)
	}
	sort.Strings(actions)

	for _, action := range actions {
		chars := bindings[action]
		if chars == "" || !utf8.ValidString(chars) {
			return Keymap{}, fmt.Errorf("keymap: %s: invalid binding %q", action, chars)
		}

		switch strings.ToLower(action) {
		case ActionStop:
			km.stop = runeSet(chars)
		case ActionQuit:
			km.quit = runeSet(chars)
			km.quit[ctrlC] = true
		default:
			key, err := domain.ParseKey(action)
			if err != nil {
				return Keymap{}, fmt.Errorf("keymap: %w", err)
			}
			for r, k := range km.keys {
				if k == key {
					delete(km.keys, r)
				}
			}
			for _, r := range chars {
				km.keys[r] = key
			}
		}
	}

	return km, km.check()
}

// check rejects a rune bound to more than one role.
func (km Keymap) check() error {
	for r := range km.keys {
		if km.stop[r] || km.quit[r] {
			return fmt.Errorf("keymap: %q bound more than once", r)
		}
	}
	for r := range km.stop {
		if km.quit[r] {
			return fmt.Errorf("keymap: %q bound to both stop and quit", r)
		}
	}
	seen := map[domain.Key]bool{}
	for _, k := range km.keys {
		seen[k] = true
	}
	for _, k := range domain.AllKeys {
		if !seen[k] {
			return fmt.Errorf("keymap: %s has no binding", k)
		}
	}
	return nil
}

// Key returns the logical key bound to r.
func (km Keymap) Key(r rune) (domain.Key, bool) {
	k, ok := km.keys[r]
	return k, ok
}

// IsStop reports whether r releases every key.
func (km Keymap) IsStop(r rune) bool { return km.stop[r] }

// IsQuit reports whether r ends the session.
func (km Keymap) IsQuit(r rune) bool { return km.quit[r] }

// Usage returns a one-line description of the bindings, for the startup log.
func (km Keymap) Usage() string {
	names := map[domain.Key][]string{}
	for r, k := range km.keys {
		names[k] = append(names[k], runeName(r))
	}
	parts := make([]string, 0, len(domain.AllKeys)+2)
	for _, k := range domain.AllKeys {
		sort.Strings(names[k])
		parts = append(parts, k.String()+"="+strings.Join(names[k], "/"))
	}
	parts = append(parts, ActionStop+"="+joinRunes(km.stop), ActionQuit+"="+joinRunes(km.quit))
	return strings.Join(parts, " ")
}

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

func joinRunes(m map[rune]bool) string {
	out := make([]string, 0, len(m))
	for r := range m {
		out = append(out, runeName(r))
	}
	sort.Strings(out)
	return strings.Join(out, "/")
}

func runeName(r rune) string {
	switch {
	case r == ' ':
		return "space"
	case r == ctrlC:
		return "ctrl-c"
	case r < 0x20:
		return fmt.Sprintf("ctrl-%c", r+'a'-1)
	default:
		return string(r)
	}
}
