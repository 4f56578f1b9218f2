package countdown

import (
	"errors"
	"fmt"
)

// Sentinel errors for construction and per-tick reporting.
var (
	ErrConfiguration = errors.New("invalid countdown configuration")
	ErrCallbackPanic = errors.New("callback panicked")
)

// ConfigError describes why a countdown could not be built.
// It matches ErrConfiguration with errors.Is.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrConfiguration, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigError) Unwrap() error { return e.Err }

// CallbackError reports a user callback that failed during a tick.
// The countdown keeps running after it is reported.
type CallbackError struct {
	Tick uint64
	Err  error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("countdown callback failed on tick %d: %v", e.Tick, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
