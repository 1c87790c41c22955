package validator

import (
	"context"
	"fmt"
)

// Result is the outcome of one validation. Invalid results always carry a
// message; the location fields are set only when the engine reported them.
type Result struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message,omitempty"`
	Line     *int   `json:"line,omitempty"`
	Token    string `json:"token,omitempty"`
	Expected string `json:"expected,omitempty"`
}

// Validate parses text with the service engine. Rejected text and engine
// failures become an invalid Result; the error is set only when ctx is done.
func (s *Service) Validate(ctx context.Context, text string) (Result, error) {
	eng, err := s.EnsureConfigured(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return NormalizeFailure(err).Result(), nil
	}

	if err := parse(ctx, eng, text); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		s.log.WithError(err).Debug("diagram rejected")
		return NormalizeFailure(err).Result(), nil
	}
	return Result{Valid: true}, nil
}

// parse turns an engine panic into an ordinary failure.
func parse(ctx context.Context, eng Engine, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	_, err = eng.Parse(ctx, text)
	return err
}
