/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Collaborating packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - malformed or out-of-range input
  2. Calculation errors - arithmetic/formula failure
  3. Data errors - a referenced entity is missing
  4. Compliance errors - a business rule is breached
  5. System errors - infrastructure/transient failure

PROPAGATION POLICY:
  A missing required entity (unknown award, employee without a super fund)
  fails fast and aborts only that employee's calculation. Issues found
  AFTER a result has been assembled (negative net, super below minimum)
  are appended to the result's ValidationErrors/Warnings instead of being
  returned as errors, so the caller always has a result to inspect.

USAGE:
  if errors.Is(err, engine.ErrAwardNotFound) {
      // record the employee outcome and continue the batch
  }

SEE ALSO:
  - calc.go: Appends post-assembly issues to the result
  - batch.go: Per-employee isolation boundary
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAwardNotFound is returned when a referenced award doesn't exist
	// in the rule set snapshot.
	ErrAwardNotFound = errors.New("award not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrTaxTableNotFound is returned when no tax table covers the
	// requested financial year and pay frequency.
	ErrTaxTableNotFound = errors.New("tax table not found")

	// ErrStatutoryRateMissing is returned when a required statutory rate
	// (super guarantee, workers comp) is not configured for the period.
	ErrStatutoryRateMissing = errors.New("statutory rate not configured")

	// ErrSuperFundMissing is returned when an employee has no super fund
	// linkage but a contribution must be recorded.
	ErrSuperFundMissing = errors.New("employee has no superannuation fund configured")

	// ErrInvalidTaxTable is returned when a bracket table is not contiguous,
	// not ascending, or its final bracket is bounded.
	ErrInvalidTaxTable = errors.New("invalid tax table")

	// ErrInvalidPeriod is returned when a pay period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid pay period: end before start")

	// ErrInvalidEntry is returned when a timesheet entry is malformed.
	ErrInvalidEntry = errors.New("invalid timesheet entry: end not after start")

	// ErrFormulaInvalid is returned when a formula component cannot be
	// parsed or references a variable outside the whitelist.
	ErrFormulaInvalid = errors.New("invalid formula")
)

// =============================================================================
// ERROR KINDS - Taxonomy for batch reporting
// =============================================================================

type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindCalculation ErrorKind = "calculation"
	KindData        ErrorKind = "data"
	KindCompliance  ErrorKind = "compliance"
	KindSystem      ErrorKind = "system"
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CalculationError wraps a failure inside one employee's calculation with
// enough context for the batch report.
type CalculationError struct {
	Kind       ErrorKind
	EmployeeID EmployeeID
	Stage      string
	Err        error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s error for employee %s at stage %q: %v", e.Kind, e.EmployeeID, e.Stage, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// MissingRateError identifies which statutory rate was absent.
type MissingRateError struct {
	RateType RateType
	State    State
	AsOf     Date
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no %s rate effective at %s (state %q)", e.RateType, e.AsOf, e.State)
}

func (e *MissingRateError) Unwrap() error { return ErrStatutoryRateMissing }
