package kdags

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/birdayz/kdags/kdag"
	"github.com/go-logr/logr"
	"go.uber.org/multierr"
)

// Option is a function that configures a composition
type Option func(*config)

type config struct {
	shape          ReturnShape
	aggregator     Aggregator
	aggregatorType reflect.Type
	enforce        bool
	setSignature   bool
	ordering       kdag.Ordering
	log            *slog.Logger
}

func defaultConfig() config {
	return config{
		shape:    ReturnMapping,
		enforce:  true,
		ordering: kdag.InsertionOrder,
		log:      NullLogger(),
	}
}

func (c *config) validate() error {
	var err error
	switch c.shape {
	case ReturnMapping, ReturnTuple, ReturnList:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: unknown return shape %d", ErrInvalidOption, c.shape))
	}
	if c.aggregatorType != nil && c.aggregator == nil {
		err = multierr.Append(err, fmt.Errorf("%w: aggregator result type %s requires an aggregator", ErrInvalidOption, c.aggregatorType))
	}
	switch c.ordering {
	case kdag.InsertionOrder, kdag.LexicographicOrder:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: unknown ordering %d", ErrInvalidOption, c.ordering))
	}
	if c.log == nil {
		err = multierr.Append(err, fmt.Errorf("%w: logger cannot be nil", ErrInvalidOption))
	}
	return err
}

// WithReturnShape sets how multiple targets are returned without an aggregator
var WithReturnShape = func(shape ReturnShape) Option {
	return func(c *config) {
		c.shape = shape
	}
}

// WithAggregator folds all target values through fn instead of assembling
// them into a shape
var WithAggregator = func(fn Aggregator) Option {
	return func(c *config) {
		c.aggregator = fn
	}
}

// WithAggregatorResultType converts the folded value to t.
// Requires WithAggregator.
var WithAggregatorResultType = func(t reflect.Type) Option {
	return func(c *config) {
		c.aggregatorType = t
	}
}

// WithEnforceSignature toggles call-time argument validation. Enabled by default.
var WithEnforceSignature = func(enforce bool) Option {
	return func(c *config) {
		c.enforce = enforce
	}
}

// WithSetSignature attaches an introspectable Signature to the composed callable
var WithSetSignature = func(set bool) Option {
	return func(c *config) {
		c.setSignature = set
	}
}

// WithOrdering sets the tie-break of the execution order
var WithOrdering = func(ordering kdag.Ordering) Option {
	return func(c *config) {
		c.ordering = ordering
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

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write(p []byte) (int, error) { return len(p), nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}
