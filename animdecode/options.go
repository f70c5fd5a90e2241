package animdecode

const (
	defaultMaxBytes  = 64 << 20
	defaultMaxPixels = 4096 * 4096
)

// Options bounds the work a single decode may do. Zero values mean "no limit"
// once passed through DefaultOptions; a zero Options literal gets the defaults.
type Options struct {
	// MaxBytes caps how much of the source is read.
	MaxBytes int64
	// MaxPixels caps the canvas area (width*height).
	MaxPixels int
	// MaxFrames stops decoding after this many frames. 0 decodes everything.
	MaxFrames int
}

func DefaultOptions() Options {
	return Options{
		MaxBytes:  defaultMaxBytes,
		MaxPixels: defaultMaxPixels,
	}
}

func (o Options) withDefaults() Options {
	if o == (Options{}) {
		return DefaultOptions()
	}
	return o
}

func (o Options) frameLimit(n int) int {
	if o.MaxFrames > 0 && o.MaxFrames < n {
		return o.MaxFrames
	}
	return n
}

func exceedsPixels(width, height, maxPixels int) bool {
	if maxPixels <= 0 {
		return false
	}
	pixels := int64(width) * int64(height)
	return pixels > int64(maxPixels)
}
