package entity

import (
	"errors"
	"fmt"
)

// ErrNoSchema is returned by schema-dependent accessors on entities built
// without a registry. Construction without a registry is allowed; the
// failure surfaces at first schema access instead.
var ErrNoSchema = errors.New("entity has no schema registry")

// ValidationError reports a rejected constructor input: a missing record,
// an empty expected-type set, or a record that satisfies none of the
// expected types.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entity: %s", e.Reason)
}

// IsValidation returns true if the error is a constructor validation
// failure. Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
