package validator

import (
	"fmt"

	"mmdcheck/internal/headless"
)

// BootstrapError reports why the sanitizer could not be bound to a headless
// document. Validation continues without it.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string {
	return "sanitizer bootstrap: " + e.Err.Error()
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// EnsurePatched binds the shared purifier to a blank headless document. Only
// the first call does any work; the attempt is never repeated, even when it
// failed.
func (s *Service) EnsurePatched() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensurePatchedLocked()
}

func (s *Service) ensurePatchedLocked() (err error) {
	if s.patched {
		return nil
	}
	s.patched = true
	if s.purifier.Ready() {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &BootstrapError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	w, err := s.windows(headless.BlankDocument)
	if err != nil {
		return &BootstrapError{Err: err}
	}
	if err := s.purifier.Bind(w); err != nil {
		return &BootstrapError{Err: err}
	}
	return nil
}
