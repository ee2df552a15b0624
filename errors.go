package kdags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/birdayz/kdags/kdag"
)

// Sentinel errors for common failure cases.
var (
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrAggregation      = errors.New("aggregation failed")
	ErrInvalidOption    = errors.New("invalid option")

	// Structural errors raised by composition, re-exported from kdag.
	ErrCycleDetected = kdag.ErrCycleDetected
	ErrMissingUnit   = kdag.ErrMissingUnit
	ErrNoTargets     = kdag.ErrNoTargets
)

// UnitError reports a unit that failed during invocation.
type UnitError struct {
	Unit string
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %q failed: %v", e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// ArgumentError reports call arguments that do not match the declared free
// inputs. It is raised before any unit executes.
type ArgumentError struct {
	// Missing are declared inputs that were not supplied.
	Missing []string
	// Unexpected are supplied names that are not declared inputs.
	Unexpected []string
	// Duplicated are inputs supplied both by position and by name.
	Duplicated []string
	// Positional is the number of positional arguments given when it exceeds
	// the number of declared inputs, zero otherwise.
	Positional int
	// Declared is the number of declared inputs.
	Declared int
}

func (e *ArgumentError) Error() string {
	var parts []string
	if e.Positional > 0 {
		parts = append(parts, fmt.Sprintf("takes %d positional arguments but %d were given", e.Declared, e.Positional))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required arguments: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected arguments: "+strings.Join(e.Unexpected, ", "))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, "multiple values for arguments: "+strings.Join(e.Duplicated, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidArguments, strings.Join(parts, "; "))
}

// Unwrap makes errors.Is(err, ErrInvalidArguments) hold.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArguments
}

func (e *ArgumentError) empty() bool {
	return e.Positional == 0 && len(e.Missing) == 0 && len(e.Unexpected) == 0 && len(e.Duplicated) == 0
}
