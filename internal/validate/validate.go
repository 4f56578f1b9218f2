package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/storage/storage.go
//   type Event struct {
// 		 ID       string    `json:"id" validate:"required,uuid4"`
//       Name     string    `json:"name" validate:"required,max=64"`
//       ...
//   }
//
// On top of the built-in tags it registers:
//   deadline  string accepted by deadline.Parse (RFC 3339, date, offset or epoch millis)

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ensigniasec/countdown/internal/deadline"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for empty tags or nil funcs.
		_ = validatorInst.RegisterValidation("deadline", isDeadline)
	})
	return validatorInst
}

func isDeadline(fl validator.FieldLevel) bool {
	_, err := deadline.Parse(fl.Field().String(), time.Now())
	return err == nil
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
