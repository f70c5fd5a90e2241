package termcaps

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDetectInline(t *testing.T) {
	cases := []struct {
		env  map[string]string
		want InlineProtocol
	}{
		{map[string]string{}, InlineNone},
		{map[string]string{"KITTY_WINDOW_ID": "3"}, InlineKitty},
		{map[string]string{"TERM_PROGRAM": "ghostty"}, InlineKitty},
		{map[string]string{"TERM_PROGRAM": "iTerm.app"}, InlineIterm},
		{map[string]string{"ITERM_SESSION_ID": "w0"}, InlineIterm},
		{map[string]string{"TERM_PROGRAM": "Apple_Terminal"}, InlineNone},
		{map[string]string{"TERM": "xterm-kitty"}, InlineKitty},
		{map[string]string{"GIFENGINE_INLINE": "blocks", "KITTY_WINDOW_ID": "1"}, InlineNone},
		{map[string]string{"GIFENGINE_INLINE": "iterm2"}, InlineIterm},
		{map[string]string{"GIFENGINE_INLINE": "bogus", "KITTY_WINDOW_ID": "1"}, InlineNone},
	}
	for _, tc := range cases {
		if got := DetectInline(envMap(tc.env)); got != tc.want {
			t.Fatalf("env %v: got %s want %s", tc.env, got, tc.want)
		}
	}
}

func TestDetectInlineRobustUsesProbe(t *testing.T) {
	env := envMap(map[string]string{"TERM": "xterm-kitty"})
	got := detectInlineRobust(env, func() kittyProbeResult { return kittyProbeNotSupported })
	if got != InlineNone {
		t.Fatalf("expected none when probe says unsupported, got %s", got)
	}
	got = detectInlineRobust(env, func() kittyProbeResult { return kittyProbeUnknown })
	if got != InlineKitty {
		t.Fatalf("expected kitty when probe is inconclusive, got %s", got)
	}

	probed := false
	env = envMap(map[string]string{"KITTY_WINDOW_ID": "1"})
	got = detectInlineRobust(env, func() kittyProbeResult { probed = true; return kittyProbeNotSupported })
	if got != InlineKitty || probed {
		t.Fatalf("kitty window id should skip the probe")
	}
}

func TestTrueColor(t *testing.T) {
	if !TrueColor(envMap(map[string]string{"COLORTERM": "truecolor"})) {
		t.Fatalf("expected truecolor")
	}
	if TrueColor(envMap(map[string]string{"TERM": "xterm-256color"})) {
		t.Fatalf("unexpected truecolor")
	}
	if !TrueColor(envMap(map[string]string{"TERM": "xterm-kitty"})) {
		t.Fatalf("kitty implies truecolor")
	}
}

func TestHasDA1Response(t *testing.T) {
	if !hasDA1Response([]byte("\x1b[?62;22c")) {
		t.Fatalf("expected DA1 match")
	}
	if hasDA1Response([]byte("\x1b[?62;x")) {
		t.Fatalf("unexpected DA1 match")
	}
}

type fakeTTY struct {
	reply   []byte
	written bytes.Buffer
}

func (f *fakeTTY) Write(p []byte) (int, error) { return f.written.Write(p) }

func (f *fakeTTY) Read(p []byte) (int, error) {
	if len(f.reply) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.reply)
	f.reply = f.reply[n:]
	return n, nil
}

func (f *fakeTTY) SetReadDeadline(time.Time) error { return nil }

func TestProbeKittyGraphics(t *testing.T) {
	tty := &fakeTTY{reply: []byte("\x1b_Gi=31;OK\x1b\\\x1b[?62c")}
	if got := probeKittyGraphics(tty, time.Second); got != kittyProbeSupported {
		t.Fatalf("expected supported, got %s", got)
	}
	if tty.written.String() != kittyQuery {
		t.Fatalf("unexpected query %q", tty.written.String())
	}
	if got := probeKittyGraphics(&fakeTTY{reply: []byte("\x1b[?62;22c")}, time.Second); got != kittyProbeNotSupported {
		t.Fatalf("expected unsupported, got %s", got)
	}
	if got := probeKittyGraphics(&fakeTTY{}, time.Second); got != kittyProbeUnknown {
		t.Fatalf("expected unknown, got %s", got)
	}
	if got := probeKittyGraphics(nil, time.Millisecond); got != kittyProbeUnknown {
		t.Fatalf("expected unknown for nil tty, got %s", got)
	}
}
