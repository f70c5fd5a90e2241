package animdecode

import "errors"

var (
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrNotAnimated          = errors.New("not an animated PNG")
	ErrNoFrames             = errors.New("no frames found")
	ErrUnsupportedColorType = errors.New("unsupported color type")
	ErrIO                   = errors.New("read failed")
	ErrDecode               = errors.New("malformed image data")
	ErrTooLarge             = errors.New("image too large")
	ErrInvalidSize          = errors.New("invalid image size")
)
