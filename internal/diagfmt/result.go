package diagfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"mmdcheck/internal/validator"
)

// WriteResult writes r as one JSON document without a trailing newline.
// Markup in messages is written as is.
func WriteResult(w io.Writer, r validator.Result) error {
	data, err := marshalCompact(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WritePrettyResult prints a colored verdict followed by the message and
// location fields of an invalid result.
func WritePrettyResult(w io.Writer, name string, r validator.Result, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	if name != "" {
		name = pal.path.Sprint(name) + ": "
	}
	if r.Valid {
		_, err := fmt.Fprintf(w, "%s%s\n", name, pal.ok.Sprint("valid"))
		return err
	}
	verdict := pal.err.Sprint("invalid")
	if r.Line != nil {
		verdict += pal.dim.Sprintf(" (line %d)", *r.Line)
	}
	if _, err := fmt.Fprintf(w, "%s%s\n%s\n", name, verdict, r.Message); err != nil {
		return err
	}
	if r.Token != "" || r.Expected != "" {
		_, err := fmt.Fprintf(w, "%s token=%s expected=%s\n", pal.dim.Sprint("="), r.Token, r.Expected)
		return err
	}
	return nil
}

// WriteFeedback writes the plain-text feedback for r.
func WriteFeedback(w io.Writer, r validator.Result) error {
	_, err := io.WriteString(w, validator.FormatFeedback(r))
	return err
}
