package validator

import (
	"context"
	"errors"
	"fmt"
)

var errNilEngine = errors.New("loader returned no engine")

// Engine returns the service engine, loading it on first use. The sanitizer
// bootstrap runs before the first load; its failure is logged and dropped.
// A failed load is retried on the next call.
func (s *Service) Engine(ctx context.Context) (Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engineLocked(ctx)
}

func (s *Service) engineLocked(ctx context.Context) (Engine, error) {
	if s.engine != nil {
		return s.engine, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensurePatchedLocked(); err != nil {
		s.log.WithError(err).Debug("continuing without sanitizer document")
	}

	eng, err := s.load(s.purifier)
	if err == nil && eng == nil {
		err = errNilEngine
	}
	if err != nil {
		return nil, fmt.Errorf("load grammar engine: %w", err)
	}
	s.engine = eng
	s.log.Debug("grammar engine loaded")
	return eng, nil
}

// EnsureConfigured returns the engine after applying the service
// configuration to it exactly once.
func (s *Service) EnsureConfigured(ctx context.Context) (Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	eng, err := s.engineLocked(ctx)
	if err != nil {
		return nil, err
	}
	if !s.configured {
		eng.Initialize(s.cfg)
		s.configured = true
		s.log.WithField("security_level", s.cfg.SecurityLevel).Debug("grammar engine configured")
	}
	return eng, nil
}
