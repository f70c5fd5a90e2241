package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/Arknight38/Gif-Engine/internal/model"
)

var httpClient = &http.Client{Timeout: 20 * time.Second}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// decodeInput decodes a local path, a file:// URL or an http(s) URL. Remote
// inputs are dispatched on the extension of the URL path.
func decodeInput(input string, opts model.Options) (animdecode.Info, []animdecode.Frame, error) {
	if strings.TrimSpace(input) == "" {
		return animdecode.Info{}, nil, errors.New("missing input")
	}
	decodeOpts := opts.DecodeOptions()
	if isURL(input) {
		parsed, err := url.Parse(input)
		if err != nil {
			return animdecode.Info{}, nil, err
		}
		name := path.Base(parsed.Path)
		if !animdecode.Supported(name) {
			return animdecode.Info{}, nil, fmt.Errorf("%w: %s", animdecode.ErrUnsupportedFormat, input)
		}
		data, err := fetchURL(input, decodeOpts.MaxBytes)
		if err != nil {
			return animdecode.Info{}, nil, err
		}
		return animdecode.Decode(name, data, decodeOpts)
	}
	if strings.HasPrefix(input, "file://") {
		parsed, err := url.Parse(input)
		if err != nil {
			return animdecode.Info{}, nil, err
		}
		input = parsed.Path
	}
	return animdecode.DecodeFile(input, decodeOpts)
}

// inputName is the label shown for an input in logs and listings.
func inputName(input string) string {
	if isURL(input) || strings.HasPrefix(input, "file://") {
		if parsed, err := url.Parse(input); err == nil && parsed.Path != "" {
			return path.Base(parsed.Path)
		}
	}
	return input
}

func fetchURL(rawURL string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", model.AppName+"/"+model.Version)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", animdecode.ErrIO, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d", animdecode.ErrIO, resp.StatusCode)
	}
	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", animdecode.ErrTooLarge, resp.ContentLength)
	}
	var r io.Reader = resp.Body
	if maxBytes > 0 {
		r = io.LimitReader(resp.Body, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", animdecode.ErrIO, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", animdecode.ErrTooLarge, maxBytes)
	}
	return data, nil
}

// writeOutput writes data to outPath, or to out when outPath is "-".
func writeOutput(out io.Writer, outPath string, data []byte) error {
	if outPath == "-" {
		_, err := out.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
