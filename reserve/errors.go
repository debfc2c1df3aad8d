/*
errors.go - Error types for the projection engine

PURPOSE:
  The engine is arithmetic over caller-supplied data, so the taxonomy is
  narrow: either the input is invalid, or the run succeeds.

  Invalid input is rejected, never clamped. A negative cost silently turned
  into zero would change the solvency answer without anyone noticing.

USAGE:
  result, err := engine.Project(input)
  if errors.Is(err, reserve.ErrInvalidInput) {
      var iv *reserve.InvalidInputError
      errors.As(err, &iv)
      fmt.Println(iv.Field, iv.ComponentID, iv.Reason)
  }

SEE ALSO:
  - engine.go: Validate runs before any computation
*/
package reserve

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a projection input violates the
	// engine's preconditions.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InvalidInputError identifies the offending field and, where relevant, the
// component or policy it belongs to.
type InvalidInputError struct {
	Field       string // e.g. "horizon_years", "replacement_cost"
	ComponentID string
	Policy      string
	Reason      string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.ComponentID != "":
		return fmt.Sprintf("invalid input: component %s: %s %s", e.ComponentID, e.Field, e.Reason)
	case e.Policy != "":
		return fmt.Sprintf("invalid input: policy %s: %s %s", e.Policy, e.Field, e.Reason)
	default:
		return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
	}
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
