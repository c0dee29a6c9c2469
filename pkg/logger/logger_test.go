package logx

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Service: "voice-test"})
	logger.Debug().Msg("hidden")
	logger.Info().Str("agent", "shop").Msg("session opened")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if entry["service"] != "voice-test" || entry["agent"] != "shop" || entry["message"] != "session opened" {
		t.Fatalf("entry = %#v", entry)
	}

	buf.Reset()
	debug := New(&buf, Config{Debug: true})
	debug.Debug().Msg("visible")
	if !bytes.Contains(buf.Bytes(), []byte("visible")) {
		t.Fatalf("debug entry missing: %s", buf.String())
	}
}
