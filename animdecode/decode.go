package animdecode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type decodeFunc func(r io.Reader, opts Options) (Info, []Frame, error)

// decoderFor picks a decoder from the file extension alone. The contents are
// never sniffed, so a mislabelled file surfaces as a decode error from the
// decoder that was picked.
func decoderFor(name string) (decodeFunc, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case "gif":
		return decodeGIF, nil
	case "png", "apng":
		return decodeAPNG, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Supported reports whether DecodeFile would try to decode name.
func Supported(name string) bool {
	_, err := decoderFor(name)
	return err == nil
}

// DecodeFile decodes the animation stored at path.
func DecodeFile(path string, opts Options) (Info, []Frame, error) {
	dec, err := decoderFor(path)
	if err != nil {
		return Info{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Info{}, nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return dec(f, opts.withDefaults())
}

// Decode decodes an in-memory animation. name is only used for its extension;
// URLs work too, the query string is ignored.
func Decode(name string, data []byte, opts Options) (Info, []Frame, error) {
	dec, err := decoderFor(stripQuery(name))
	if err != nil {
		return Info{}, nil, err
	}
	return dec(bytes.NewReader(data), opts.withDefaults())
}

func stripQuery(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if strings.Contains(name, "://") {
		return path.Base(name)
	}
	return name
}

func readAllLimit(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		return data, nil
	}
	lr := &io.LimitedReader{R: r, N: maxBytes + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}
