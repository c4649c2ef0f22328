/*
calculator.go - Derived allowance figures

PURPOSE:
  Computes the allowance breakdown from a Snapshot. This is the central
  arithmetic that answers "how many days does this employee have left?"

EVALUATION ORDER:
  Later figures depend on earlier ones:

    EmploymentRangeAdjustment          (proration for partial-year employment)
      -> TotalDaysInAllowance          (nominal + carry-over + manual + proration)
      -> AccruedAdjustment             (unaccrued remainder, accrual departments)
      -> AvailableDays                 (total - taken + accrued adjustment)

PRORATION:
  An employee employed for only part of the evaluation year earns only the
  matching fraction of the nominal allowance. The fraction uses the calendar
  days of the effective employment window over a fixed 365-day denominator
  (leap years deliberately ignored for balance compatibility), rounded to
  whole days.

ACCRUAL:
  For departments that grant the allowance incrementally, the not-yet-accrued
  remainder is subtracted from availability. The remainder is the prorated
  allowance scaled by the fraction of the effective period still ahead of
  "now", rounded to half-day granularity.

EXAMPLE:
  28 days/year, hired July 1, evaluated December 31 same year:
    effective window  Jul 1 .. Dec 31 = 183 days
    earned            round(28 * 183/365) = 14
    adjustment        14 - 28 = -14

Every method recomputes from the snapshot on each call. There is no caching
and no mutation.
*/
package allowance

import (
	"github.com/shopspring/decimal"
)

// daysPerYear is the fixed proration denominator. Kept at 365 regardless of
// leap years so prorated figures stay stable across existing balances.
var daysPerYear = decimal.NewFromInt(365)

var two = decimal.NewFromInt(2)

// =============================================================================
// CALCULATOR - Pure reads over a validated snapshot
// =============================================================================

// Calculator exposes the derived allowance figures for one Snapshot.
type Calculator struct {
	snap Snapshot
}

// NewCalculator validates the params and returns a ready calculator.
func NewCalculator(p SnapshotParams) (Calculator, error) {
	snap, err := NewSnapshot(p)
	if err != nil {
		return Calculator{}, err
	}
	return FromSnapshot(snap), nil
}

// FromSnapshot wraps an already-validated snapshot.
func FromSnapshot(snap Snapshot) Calculator {
	return Calculator{snap: snap}
}

// Snapshot returns the underlying input snapshot.
func (c Calculator) Snapshot() Snapshot { return c.snap }

// IsAccruedAllowance reports whether the employee's department grants the
// allowance incrementally over the year.
func (c Calculator) IsAccruedAllowance() bool {
	return c.snap.employee.Department.IsAccruedAllowance
}

// TotalDaysInAllowance is the full entitlement for the evaluation year:
// nominal allowance + carry-over + manual adjustment + proration.
func (c Calculator) TotalDaysInAllowance() decimal.Decimal {
	return c.snap.nominalAllowance.
		Add(c.snap.carryOver).
		Add(c.snap.manualAdjustment).
		Add(c.EmploymentRangeAdjustment())
}

// AvailableDays is the figure shown to the employee: what can still be
// taken as of the snapshot's evaluation instant.
//
// Returns 0 when the employee's start year is strictly after the evaluation
// year (not employed yet as of that year).
func (c Calculator) AvailableDays() decimal.Decimal {
	if c.snap.employee.StartDate.Year() > c.snap.now.Year() {
		return decimal.Zero
	}

	available := c.TotalDaysInAllowance().Sub(c.snap.daysTaken)
	if c.IsAccruedAllowance() {
		available = available.Add(c.AccruedAdjustment())
	}
	return available
}

// =============================================================================
// EMPLOYMENT RANGE ADJUSTMENT - Partial-year proration
// =============================================================================

// EmploymentRangeAdjustment corrects the nominal allowance for employees who
// are employed for only part of the evaluation year. Zero when the
// employment fully spans the year. Otherwise it is the (negative) difference
// between the nominal allowance and the prorated share earned over the
// effective employment window.
func (c Calculator) EmploymentRangeAdjustment() decimal.Decimal {
	year := c.snap.now.Year()
	emp := c.snap.employee

	startedOtherYear := emp.StartDate.Year() != year
	employedPastYear := emp.EndDate == nil || emp.EndDate.Year() > year
	if startedOtherYear && employedPastYear {
		// Employed for the whole calendar year: nothing to prorate.
		return decimal.Zero
	}

	start, end := c.effectiveWindow()
	days := decimal.NewFromInt(int64(DaysBetween(start, end)))
	earned := c.snap.nominalAllowance.Mul(days).Div(daysPerYear).Round(0)
	return earned.Sub(c.snap.nominalAllowance)
}

// =============================================================================
// ACCRUED ADJUSTMENT - Not-yet-accrued remainder for accrual departments
// =============================================================================

// AccruedAdjustment is the portion of the period allowance that has not yet
// accrued as of the evaluation instant, as a negative half-day-rounded
// figure. Zero when the evaluation instant is at the end of the effective
// period, and more negative the earlier in the period it falls.
//
// A zero-length effective period (start date equal to end date) accrues
// nothing and yields 0 rather than a division fault.
func (c Calculator) AccruedAdjustment() decimal.Decimal {
	start, end := c.effectiveWindow()
	span := DaysBetween(start, end)
	if span == 0 {
		return decimal.Zero
	}

	allowanceForPeriod := c.snap.nominalAllowance.
		Add(c.snap.manualAdjustment).
		Add(c.EmploymentRangeAdjustment())

	remaining := decimal.NewFromInt(int64(DaysBetween(c.snap.now, end)))
	delta := allowanceForPeriod.Mul(remaining).Div(decimal.NewFromInt(int64(span)))

	// Half-day granularity: round(delta*2)/2, negated so the unaccrued
	// remainder reduces availability.
	return delta.Mul(two).Round(0).Div(two).Neg()
}

// effectiveWindow is the employment window clipped to the evaluation year:
// the start date if it falls in that year (else Jan 1), and the end date if
// it falls in or before that year (else Dec 31).
func (c Calculator) effectiveWindow() (start, end TimePoint) {
	year := c.snap.now.Year()
	emp := c.snap.employee

	start = StartOfYear(year)
	if emp.StartDate.Year() == year {
		start = emp.StartDate
	}

	end = EndOfYear(year)
	if emp.EndDate != nil && emp.EndDate.Year() <= year {
		end = *emp.EndDate
	}
	return start, end
}
