package validator

import (
	"errors"
	"strings"

	"mmdcheck/internal/engine"
	"mmdcheck/internal/sanitize"
)

const (
	FallbackMessage  = "Mermaid syntax is invalid and could not be parsed."
	SanitizerMessage = "Mermaid parser runtime failed in server context (sanitizer issue)."
)

// FailureLocation is where the engine detected a problem. Each field may be
// missing.
type FailureLocation struct {
	Line     *int
	Token    string
	Expected string
}

// EngineFailure is an engine error reduced to the fields a Result reports.
type EngineFailure struct {
	Message  *string
	Location *FailureLocation
}

// NormalizeFailure extracts the message and location of err. A
// *engine.ParseError contributes its hash; anything else only its text.
// Failures caused by an unbound sanitizer get a fixed message.
func NormalizeFailure(err error) EngineFailure {
	var f EngineFailure
	if err == nil {
		return f
	}
	if errors.Is(err, sanitize.ErrUnbound) {
		msg := SanitizerMessage
		f.Message = &msg
		return f
	}
	if msg := err.Error(); msg != "" {
		f.Message = &msg
	}
	var pe *engine.ParseError
	if errors.As(err, &pe) && pe.Hash != nil {
		f.Location = locationOf(pe.Hash)
	}
	return f
}

func locationOf(h *engine.Hash) *FailureLocation {
	loc := &FailureLocation{
		Token:    h.Token,
		Expected: strings.Join(h.Expected, ", "),
	}
	if h.Line > 0 {
		line := h.Line
		loc.Line = &line
	}
	if loc.Line == nil && loc.Token == "" && loc.Expected == "" {
		return nil
	}
	return loc
}

// Result builds the invalid Result for f.
func (f EngineFailure) Result() Result {
	r := Result{Valid: false, Message: FallbackMessage}
	if f.Message != nil && *f.Message != "" {
		r.Message = *f.Message
	}
	if loc := f.Location; loc != nil {
		r.Line = loc.Line
		r.Token = loc.Token
		r.Expected = loc.Expected
	}
	return r
}
