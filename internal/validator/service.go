// Package validator turns diagram text into a validation result. A Service
// owns the process-wide state of the original tool: the sanitizer patch flag,
// the lazily loaded engine and its one-time configuration.
package validator

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/engine"
	"mmdcheck/internal/headless"
	"mmdcheck/internal/sanitize"
)

// Engine is the grammar engine a Service drives.
type Engine interface {
	Initialize(cfg engine.Config)
	Parse(ctx context.Context, text string) (*ast.Diagram, error)
}

// Loader builds the engine around the shared purifier.
type Loader func(p *sanitize.Purifier) (Engine, error)

// DefaultLoader returns the built-in engine.
func DefaultLoader(p *sanitize.Purifier) (Engine, error) {
	return engine.New(p), nil
}

// DefaultConfig is applied once to every loaded engine: no auto-render and a
// loose security level for headless use.
func DefaultConfig() engine.Config {
	return engine.Config{
		StartOnLoad:   false,
		SecurityLevel: sanitize.LevelLoose,
		HTMLLabels:    true,
	}
}

// Service validates diagrams with one lazily loaded, configured engine.
type Service struct {
	purifier *sanitize.Purifier
	windows  headless.Factory
	load     Loader
	cfg      engine.Config
	log      logrus.FieldLogger

	mu         sync.Mutex
	patched    bool
	engine     Engine
	configured bool
}

// Option configures a Service.
type Option func(*Service)

// WithLoader replaces the engine loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		s.load = l
	}
}

// WithWindowFactory replaces how the bootstrap document is built.
func WithWindowFactory(f headless.Factory) Option {
	return func(s *Service) {
		s.windows = f
	}
}

// WithPurifier shares an existing purifier with the engine.
func WithPurifier(p *sanitize.Purifier) Option {
	return func(s *Service) {
		s.purifier = p
	}
}

// WithConfig overrides the configuration passed to Initialize.
func WithConfig(cfg engine.Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithLogger sets where bootstrap and load failures are logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService returns a service whose engine is loaded on first use.
func NewService(opts ...Option) *Service {
	s := &Service{
		purifier: sanitize.New(),
		windows:  headless.NewWindow,
		load:     DefaultLoader,
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// Purifier returns the sanitizer shared with the engine.
func (s *Service) Purifier() *sanitize.Purifier {
	return s.purifier
}

// Config returns the configuration the service applies to its engine.
func (s *Service) Config() engine.Config {
	return s.cfg
}
