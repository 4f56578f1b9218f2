package countdown

import (
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/validate"
)

// DefaultTickInterval is the scheduler period used when Config leaves it unset.
const DefaultTickInterval = time.Second

// Callback receives the remaining time after every tick.
// A returned error (or a panic) is reported through Config.OnError and never
// stops the countdown.
type Callback func(days, hours, minutes, seconds int64) error

// Config configures a Countdown. Zero values fall back to:
//
//	Timestamp     0 (already expired)
//	Callback      no-op
//	TickInterval  DefaultTickInterval
//	OnError       warning on Logger
//	Clock         SystemClock
//	Logger        logrus.StandardLogger()
type Config struct {
	// Timestamp is the deadline in epoch milliseconds. NaN and infinities are
	// treated as an expired deadline.
	Timestamp    float64
	Callback     Callback           `validate:"-"`
	TickInterval time.Duration      `validate:"gte=0"`
	OnError      func(error)        `validate:"-"`
	Clock        Clock              `validate:"-"`
	Logger       logrus.FieldLogger `validate:"-"`
}

func (c Config) withDefaults() Config {
	if c.Callback == nil {
		c.Callback = func(int64, int64, int64, int64) error { return nil }
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Clock == nil {
		c.Clock = SystemClock
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	if c.OnError == nil {
		log := c.Logger
		c.OnError = func(err error) {
			log.WithError(err).Warn("countdown callback failed")
		}
	}
	return c
}

// validateConfig checks c and converts validator failures into ConfigErrors.
func validateConfig(c Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigError{Field: fe.Field(), Reason: "failed " + fe.Tag() + " check"}
	}
	return &ConfigError{Field: "config", Reason: "validation failed", Err: err}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
