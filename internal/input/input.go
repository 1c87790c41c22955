// Package input reads diagram text from a stream.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInputTooLarge is returned when the input exceeds Options.MaxBytes.
var ErrInputTooLarge = errors.New("input too large")

// Options bounds a read.
type Options struct {
	// MaxBytes caps the raw input size; 0 means unlimited.
	MaxBytes int64
	// StripFences removes Markdown code fences around the diagram.
	StripFences bool
}

// ReadAll drains r and decodes it as UTF-8, honouring UTF-8 and UTF-16 byte
// order marks. Invalid sequences become U+FFFD. A done ctx abandons the read.
func ReadAll(ctx context.Context, r io.Reader, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := readLimited(r, opts.MaxBytes)
		done <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		text, err := decode(res.data)
		if err != nil || !opts.StripFences {
			return text, err
		}
		return StripFences(text), nil
	}
}

// StripFences drops every "```mermaid" and "```" marker and trims the
// surrounding whitespace, so a diagram pasted from Markdown validates as is.
// Line numbers then refer to the stripped text.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```mermaid", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)
	}
	return data, nil
}

func decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode input: %w", err)
	}
	return string(out), nil
}
