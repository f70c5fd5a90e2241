package termcaps

import (
	"bytes"
	"io"
	"time"
)

// kittyQuery asks for graphics support (a=q on a 1x1 RGB image, id 31)
// followed by a primary device attributes request. Every terminal answers
// DA1; only kitty-capable ones answer the graphics query first.
const kittyQuery = "\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\\x1b[c"

type ttyConn interface {
	io.ReadWriter
	SetReadDeadline(t time.Time) error
}

func probeKittyGraphics(tty ttyConn, timeout time.Duration) kittyProbeResult {
	if tty == nil {
		return kittyProbeUnknown
	}
	if _, err := io.WriteString(tty, kittyQuery); err != nil {
		return kittyProbeUnknown
	}

	deadline := time.Now().Add(timeout)
	_ = tty.SetReadDeadline(deadline)

	var buf [1024]byte
	acc := make([]byte, 0, 2048)
	daSeen := false

	for time.Now().Before(deadline) {
		n, err := tty.Read(buf[:])
		if n > 0 {
			acc = append(acc, buf[:n]...)
			if bytes.Contains(acc, []byte("\x1b_Gi=31;")) || bytes.Contains(acc, []byte("\x1b_Gi=31,")) {
				return kittyProbeSupported
			}
			if hasDA1Response(acc) {
				daSeen = true
			}
		}
		if err != nil {
			break
		}
	}

	if daSeen {
		return kittyProbeNotSupported
	}
	return kittyProbeUnknown
}

// hasDA1Response looks for ESC [ ? digits;... c.
func hasDA1Response(b []byte) bool {
	for i := 0; i+3 < len(b); i++ {
		if b[i] != 0x1b || b[i+1] != '[' {
			continue
		}
		j := i + 2
		if j < len(b) && b[j] == '?' {
			j++
		}
		for j < len(b) && j-i < 64 {
			ch := b[j]
			if ch == 'c' {
				return true
			}
			if (ch >= '0' && ch <= '9') || ch == ';' {
				j++
				continue
			}
			break
		}
	}
	return false
}
