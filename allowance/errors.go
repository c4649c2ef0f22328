/*
errors.go - Centralized error types for the allowance engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Validation errors - Invalid construction input, raised synchronously
     at the boundary and naming the parameter that failed.
  2. Collaborator errors - Failures from the leave or adjustment providers.
     These are NOT wrapped: the resolver surfaces them unchanged so callers
     can match them with errors.Is/As against the provider's own types.

USAGE:
  var verr *allowance.ValidationError
  if errors.As(err, &verr) {
      log.Printf("bad input: %s", verr.Param)
  }
*/
package allowance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned by stores when an employee ID is unknown.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDepartmentNotFound is returned by stores when a department ID is unknown.
	ErrDepartmentNotFound = errors.New("department not found")
)

// =============================================================================
// VALIDATION ERROR - Carries the failing parameter name
// =============================================================================

// ValidationError reports invalid construction input. Param identifies the
// offending parameter so callers do not have to parse the message.
type ValidationError struct {
	Param  string // e.g. "employee", "start_date", "now", "year"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

func invalidParam(param, reason string) *ValidationError {
	return &ValidationError{Param: param, Reason: reason}
}

// IsValidation returns true if the error is a construction-time validation
// failure rather than a collaborator failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
