package clipboard

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestCopyWritesOSC52(t *testing.T) {
	var buf bytes.Buffer
	c := &Clipboard{out: &buf, term: "xterm-256color"}

	if err := c.Copy("9780143127741"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]52;") {
		t.Errorf("expected OSC 52 sequence, got %q", out)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("9780143127741"))
	if !strings.Contains(out, encoded) {
		t.Errorf("expected base64 payload %q in %q", encoded, out)
	}
}

func TestCopyInsideTmux(t *testing.T) {
	var buf bytes.Buffer
	c := &Clipboard{out: &buf, term: "screen-256color", tmux: true}

	if err := c.Copy("dune"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "\x1bPtmux;") {
		t.Errorf("expected tmux passthrough, got %q", buf.String())
	}
}
