/*
batch.go - Payroll run over a list of employees

PURPOSE:
  Drives one payroll run: load inputs per employee, calculate, persist,
  and record a per-employee outcome. One employee failing never aborts
  the batch; the run-level status is derived only after every employee
  has been attempted.

CONCURRENCY:
  Each employee's calculation is independent and side-effect-free except
  for read access to the shared immutable RuleSet snapshot, so the loop
  may fan out across a bounded worker pool with no ordering dependency.
  Concurrency 1 (the default) keeps the run strictly sequential.

ISOLATION:
  The per-employee boundary is the isolation unit:
  - load/calculate errors become an error outcome for that employee
  - results carrying hard validation errors are NOT persisted
  - warnings persist with the result and surface in the outcome
  There is no retry logic here; retry/backoff belongs to the persistence
  layer.

SEE ALSO:
  - calc.go: The per-employee calculation
  - ruleset.go: Snapshot loading
*/
package engine

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// =============================================================================
// RUN OUTCOMES
// =============================================================================

type OutcomeStatus string

const (
	OutcomeCalculated OutcomeStatus = "calculated"
	OutcomeBlocked    OutcomeStatus = "blocked" // hard validation errors, not persisted
	OutcomeFailed     OutcomeStatus = "failed"  // load/calculate/persist error
)

// EmployeeOutcome records how one employee fared in the run.
type EmployeeOutcome struct {
	EmployeeID EmployeeID
	Status     OutcomeStatus
	Result     *PayrollCalculationResult // nil for load failures
	Err        string
}

// RunStatus is derived from the outcomes only after all employees have
// been attempted; partially successful work is never reverted.
type RunStatus string

const (
	RunCompleted          RunStatus = "completed"
	RunCompletedWithIssues RunStatus = "completed_with_issues"
	RunFailed             RunStatus = "failed"
)

// RunReport is the batch result for one payroll run.
type RunReport struct {
	Period   PayPeriod
	Outcomes []EmployeeOutcome
	Status   RunStatus
}

func (r *RunReport) deriveStatus() {
	var ok, bad int
	for _, o := range r.Outcomes {
		if o.Status == OutcomeCalculated {
			ok++
		} else {
			bad++
		}
	}
	switch {
	case bad == 0:
		r.Status = RunCompleted
	case ok == 0 && bad > 0:
		r.Status = RunFailed
	default:
		r.Status = RunCompletedWithIssues
	}
}

// =============================================================================
// BATCH RUNNER
// =============================================================================

// InputLoader assembles the per-employee calculation input. Implemented by
// the storage layer; the runner treats it as a collaborator.
type InputLoader interface {
	LoadInput(ctx context.Context, id EmployeeID, period PayPeriod) (PayrollInput, error)
}

// BatchRunner processes a payroll run employee by employee.
type BatchRunner struct {
	Calculator *Calculator
	Loader     InputLoader
	Results    ResultStore

	// Concurrency bounds the worker pool; values < 1 mean sequential.
	Concurrency int

	Log log.FieldLogger
}

// Run processes all employees for the period and returns the report.
// ctx cancellation stops dispatching new employees; in-flight calculations
// complete (they contain no blocking steps).
func (b *BatchRunner) Run(ctx context.Context, employees []EmployeeID, period PayPeriod) *RunReport {
	report := &RunReport{Period: period, Outcomes: make([]EmployeeOutcome, len(employees))}

	workers := b.Concurrency
	if workers < 1 {
		workers = 1
	}
	logger := b.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger.WithFields(log.Fields{
		"employees":   len(employees),
		"period":      period.String(),
		"concurrency": workers,
	}).Info("starting payroll run")

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, id := range employees {
		if ctx.Err() != nil {
			report.Outcomes[i] = EmployeeOutcome{EmployeeID: id, Status: OutcomeFailed, Err: ctx.Err().Error()}
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, id EmployeeID) {
			defer wg.Done()
			defer func() { <-sem }()
			report.Outcomes[slot] = b.runOne(ctx, id, period, logger)
		}(i, id)
	}
	wg.Wait()

	report.deriveStatus()
	logger.WithField("status", report.Status).Info("payroll run finished")
	return report
}

func (b *BatchRunner) runOne(ctx context.Context, id EmployeeID, period PayPeriod, logger log.FieldLogger) EmployeeOutcome {
	input, err := b.Loader.LoadInput(ctx, id, period)
	if err != nil {
		logger.WithField("employee", id).WithError(err).Warn("failed to load payroll input")
		return EmployeeOutcome{EmployeeID: id, Status: OutcomeFailed, Err: err.Error()}
	}

	result, err := b.Calculator.Calculate(input)
	if err != nil {
		logger.WithField("employee", id).WithError(err).Warn("calculation failed")
		return EmployeeOutcome{EmployeeID: id, Status: OutcomeFailed, Err: err.Error()}
	}

	if result.HasErrors() {
		// Hard errors block persisting this payslip but the result is kept
		// on the outcome for the batch report.
		return EmployeeOutcome{
			EmployeeID: id,
			Status:     OutcomeBlocked,
			Result:     result,
			Err:        fmt.Sprintf("validation errors: %v", result.ValidationErrors),
		}
	}

	if b.Results != nil {
		if err := b.Results.SaveResult(ctx, result); err != nil {
			logger.WithField("employee", id).WithError(err).Error("failed to persist result")
			return EmployeeOutcome{EmployeeID: id, Status: OutcomeFailed, Result: result, Err: err.Error()}
		}
	}
	return EmployeeOutcome{EmployeeID: id, Status: OutcomeCalculated, Result: result}
}
