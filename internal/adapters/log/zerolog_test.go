package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/rcdrive/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapter(zerolog.New(&buf))

	z.Info("driving",
		ports.String("state", "Forward"),
		ports.Uint16("seq", 7),
		ports.Int("n", 3),
		ports.Bool("ok", true),
		ports.Duration("took", 2*time.Millisecond),
		ports.Err(errors.New("boom")),
		ports.Any("extra", []int{1, 2}),
	)

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}

	checks := map[string]interface{}{
		"level":   "info",
		"message": "driving",
		"state":   "Forward",
		"seq":     float64(7),
		"n":       float64(3),
		"ok":      true,
		"error":   "boom",
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("field %q = %v, want %v", k, got[k], want)
		}
	}
	if _, ok := got["took"]; !ok {
		t.Error("duration field missing")
	}
}

func TestZerologAdapter_DisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.WarnLevel))

	z.Debug("hidden")
	z.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("disabled levels wrote %q", buf.String())
	}

	z.Warn("shown")
	z.Error("shown")
	if n := bytes.Count(buf.Bytes(), []byte("\n")); n != 2 {
		t.Errorf("got %d lines, want 2", n)
	}
}

func TestNoopLogger(t *testing.T) {
	var l ports.Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x", ports.Err(errors.New("ignored")))
}
