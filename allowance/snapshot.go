/*
snapshot.go - Immutable calculation input

PURPOSE:
  A Snapshot freezes everything the calculator needs: the employee record,
  the numeric inputs, and the evaluation instant. It is constructed once per
  allowance query, consumed, and discarded. Derived figures are pure
  functions of its fields.

VALIDATION:
  NewSnapshot is the boundary. It rejects bad input with a ValidationError
  naming the failing parameter instead of letting a half-formed snapshot
  reach the arithmetic. After construction the snapshot cannot be invalid.

NOW DEFAULTING:
  The evaluation instant defaults to the current UTC day here and ONLY here.
  Nothing inside the calculator ever reads the wall clock, which keeps every
  derived value deterministic for a given snapshot.
*/
package allowance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SNAPSHOT - Frozen inputs for one allowance calculation
// =============================================================================

// Snapshot is the immutable input bundle for an allowance calculation.
// Construct with NewSnapshot; the zero value is not usable.
type Snapshot struct {
	employee         Employee
	daysTaken        decimal.Decimal
	manualAdjustment decimal.Decimal
	carryOver        decimal.Decimal
	nominalAllowance decimal.Decimal
	now              TimePoint
}

// SnapshotParams carries the raw inputs for NewSnapshot.
type SnapshotParams struct {
	// Employee is required. The snapshot keeps its own copy.
	Employee *Employee

	// DaysTaken is the realized leave-day count already used this year.
	DaysTaken decimal.Decimal

	// ManualAdjustment is a signed manual correction.
	ManualAdjustment decimal.Decimal

	// CarryOver is the signed day count carried from the previous year.
	CarryOver decimal.Decimal

	// NominalAllowance is the full-year entitlement before adjustments.
	NominalAllowance decimal.Decimal

	// Now is the evaluation instant. Zero value means "current UTC day".
	Now TimePoint
}

// NewSnapshot validates params and freezes them into a Snapshot.
func NewSnapshot(p SnapshotParams) (Snapshot, error) {
	if p.Employee == nil {
		return Snapshot{}, invalidParam("employee", "required")
	}
	if p.Employee.StartDate.IsZero() {
		return Snapshot{}, invalidParam("start_date", "required")
	}
	if p.Employee.EndDate != nil && p.Employee.EndDate.Before(p.Employee.StartDate) {
		return Snapshot{}, invalidParam("end_date", "before start_date")
	}
	if p.DaysTaken.IsNegative() {
		return Snapshot{}, invalidParam("days_taken", "must not be negative")
	}

	now := p.Now
	if now.IsZero() {
		now = Today()
	}

	return Snapshot{
		employee:         *p.Employee,
		daysTaken:        p.DaysTaken,
		manualAdjustment: p.ManualAdjustment,
		carryOver:        p.CarryOver,
		nominalAllowance: p.NominalAllowance,
		now:              now,
	}, nil
}

// Accessors. The employee copy shares the Leaves backing array with the
// caller's record; the calculator never reads or writes it.

func (s Snapshot) Employee() Employee                { return s.employee }
func (s Snapshot) DaysTaken() decimal.Decimal        { return s.daysTaken }
func (s Snapshot) ManualAdjustment() decimal.Decimal { return s.manualAdjustment }
func (s Snapshot) CarryOver() decimal.Decimal        { return s.carryOver }
func (s Snapshot) NominalAllowance() decimal.Decimal { return s.nominalAllowance }
func (s Snapshot) Now() TimePoint                    { return s.now }
