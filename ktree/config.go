package ktree

import (
	"log/slog"

	"github.com/birdayz/kdags"
	"github.com/go-logr/logr"
)

// NameClashPolicy decides what happens when two leaves clash.
type NameClashPolicy int

const (
	// ClashRaise fails the composition.
	ClashRaise NameClashPolicy = iota
	// ClashWarn logs a warning and keeps the last declaration.
	ClashWarn
	// ClashIgnore silently keeps the last declaration.
	ClashIgnore
)

func (p NameClashPolicy) String() string {
	switch p {
	case ClashRaise:
		return "raise"
	case ClashWarn:
		return "warn"
	case ClashIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Option is a function that configures tree resolution and composition
type Option func(*config)

type config struct {
	topLevel []string
	derive   bool
	clash    NameClashPolicy
	inputs   map[string]any
	log      *slog.Logger
	flat     []kdags.Option
}

func defaultConfig() config {
	return config{
		clash: ClashRaise,
		log:   kdags.NullLogger(),
	}
}

// WithTopLevel enables fixed top-level mode with the given root segments.
// A parameter whose first segment is one of them is absolute.
var WithTopLevel = func(segments ...string) Option {
	return func(c *config) {
		c.topLevel = append(c.topLevel, segments...)
	}
}

// WithDerivedTopLevel enables fixed top-level mode with the root segments of
// all units and required inputs.
var WithDerivedTopLevel = func() Option {
	return func(c *config) {
		c.derive = true
	}
}

// WithNameClashPolicy sets the clash policy. Defaults to ClashRaise.
var WithNameClashPolicy = func(policy NameClashPolicy) Option {
	return func(c *config) {
		c.clash = policy
	}
}

// WithRequiredInputs declares the expected external inputs as a nested map.
// Leaf values are ignored. Absolute references must then name a unit or a
// declared input.
var WithRequiredInputs = func(nested map[string]any) Option {
	return func(c *config) {
		c.inputs = nested
	}
}

// WithFlatOptions passes options to the flat composition
var WithFlatOptions = func(opts ...kdags.Option) Option {
	return func(c *config) {
		c.flat = append(c.flat, opts...)
	}
}

// WithLog sets the logger
var WithLog = func(log *slog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithLogr sets the logger from a logr.Logger
var WithLogr = func(log logr.Logger) Option {
	return func(c *config) {
		c.log = slog.New(logr.ToSlogHandler(log))
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = kdags.NullLogger()
	}
	return cfg
}
