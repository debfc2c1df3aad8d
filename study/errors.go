package study

import (
	"errors"

	"github.com/warp/reserve-engine/reserve"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrStudyNotFound is returned when a referenced study doesn't exist.
	ErrStudyNotFound = errors.New("study not found")

	// ErrDuplicateStudy is returned when creating a study whose ID is taken.
	ErrDuplicateStudy = errors.New("study already exists")

	// ErrComponentNotFound is returned when a referenced component doesn't exist.
	ErrComponentNotFound = errors.New("component not found")

	// ErrDuplicateComponent is returned when a component ID is already used
	// within the study.
	ErrDuplicateComponent = errors.New("duplicate component id")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing study or component.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStudyNotFound) ||
		errors.Is(err, ErrComponentNotFound)
}

// IsConflict returns true if the error indicates a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateStudy) ||
		errors.Is(err, ErrDuplicateComponent)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return reserve.IsClientError(err)
}
