package validator

import (
	"fmt"
	"strings"
)

// FormatFeedback renders r as the plain-text note handed back to whoever
// wrote the diagram.
func FormatFeedback(r Result) string {
	if r.Valid {
		return "No syntax errors found."
	}
	msg := r.Message
	if msg == "" {
		msg = "unknown parse error"
	}
	details := []string{"message: " + msg}
	if r.Line != nil {
		details = append(details, fmt.Sprintf("line: %d", *r.Line))
	}
	if r.Token != "" {
		details = append(details, "token: "+r.Token)
	}
	if r.Expected != "" {
		details = append(details, "expected: "+r.Expected)
	}
	return strings.Join(details, "\n")
}
