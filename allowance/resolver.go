/*
resolver.go - Gathers collaborator data and builds the calculator

PURPOSE:
  The Resolver assembles an allowance calculation for one employee/year
  pair. It owns the sequencing of the external fetches; the arithmetic
  lives entirely in the calculator.

SEQUENCE (strictly ordered, each step gated by the previous):
  1. Load leave records for the year, unless already present on the record
  2. Fetch {manual adjustment, carried-over days} for the year
  3. Sum days taken from the loaded leave records
  4. Resolve the evaluation instant
  5. Build snapshot + calculator

FAILURE PROPAGATION:
  The first failing step aborts the resolution. Provider errors surface to
  the caller unchanged - no retry, no fallback value, no partial result.
  Context cancellation propagates through the providers the same way.
*/
package allowance

import (
	"context"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// LeaveProvider loads an employee's realized-leave records.
type LeaveProvider interface {
	// LeavesForYear returns the employee's leave records that start in the
	// given calendar year. An employee with no leaves yields an empty
	// (non-nil) slice.
	LeavesForYear(ctx context.Context, employeeID string, year int) ([]Leave, error)
}

// AdjustmentProvider resolves the per-year manual adjustment and carry-over.
type AdjustmentProvider interface {
	// AdjustmentAndCarryOverForYear returns the adjustment record for the
	// year. Years without a record yield zero values, not an error.
	AdjustmentAndCarryOverForYear(ctx context.Context, employeeID string, year int) (YearAdjustment, error)
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver builds calculators from collaborator data.
type Resolver struct {
	Leaves      LeaveProvider
	Adjustments AdjustmentProvider
}

func NewResolver(leaves LeaveProvider, adjustments AdjustmentProvider) *Resolver {
	return &Resolver{Leaves: leaves, Adjustments: adjustments}
}

// ResolveParams are the inputs for one resolution.
type ResolveParams struct {
	// Employee is required. If its leave records are already loaded
	// (Leaves non-nil) the leave fetch is skipped.
	Employee *Employee

	// Year is the calendar year to evaluate. Zero means the current UTC year.
	Year int

	// Now is an optional evaluation instant, honored only with ForceNow.
	Now TimePoint

	// ForceNow uses Now verbatim instead of the year-based defaulting.
	ForceNow bool
}

// Resolve runs the fetch sequence and returns a ready calculator.
func (r *Resolver) Resolve(ctx context.Context, p ResolveParams) (Calculator, error) {
	if p.Employee == nil {
		return Calculator{}, invalidParam("employee", "required")
	}
	if p.Year < 0 {
		return Calculator{}, invalidParam("year", "must be a calendar year")
	}
	if p.ForceNow && p.Now.IsZero() {
		return Calculator{}, invalidParam("now", "required when forced")
	}

	currentYear := Today().Year()
	year := p.Year
	if year == 0 {
		year = currentYear
	}

	// 1. Leave records, unless already loaded.
	employee := *p.Employee
	if !employee.LeavesLoaded() {
		leaves, err := r.Leaves.LeavesForYear(ctx, employee.ID, year)
		if err != nil {
			return Calculator{}, err
		}
		if leaves == nil {
			leaves = []Leave{}
		}
		employee.Leaves = leaves
	}

	// 2. Adjustment and carry-over.
	adj, err := r.Adjustments.AdjustmentAndCarryOverForYear(ctx, employee.ID, year)
	if err != nil {
		return Calculator{}, err
	}

	// 3. Days already taken this year.
	daysTaken := DaysTakenFromAllowance(employee.Leaves, year)

	// 4. Evaluation instant. A past or future year is evaluated as of that
	// year's start; the current year falls through to the snapshot default.
	var now TimePoint
	switch {
	case p.ForceNow:
		now = p.Now
	case p.Year != 0 && p.Year != currentYear:
		now = StartOfYear(p.Year)
	}

	// 5. Snapshot + calculator.
	return NewCalculator(SnapshotParams{
		Employee:         &employee,
		DaysTaken:        daysTaken,
		ManualAdjustment: adj.Adjustment,
		CarryOver:        adj.CarriedOver,
		NominalAllowance: employee.Department.Allowance,
		Now:              now,
	})
}
