/*
Package allowance computes an employee's paid-time-off allowance for a
calendar year.

PURPOSE:
  Turns a handful of raw inputs - employment dates, nominal yearly
  entitlement, manual adjustment, carry-over from the previous year, and an
  evaluation instant - into a final available-days figure. Handles
  partial-year proration and monthly-accrual departments.

KEY CONCEPTS IN THIS FILE (types.go):
  - Department: carries the nominal allowance and the accrual flag
  - Employee: employment window plus department, optionally with loaded leaves
  - Leave: a realized leave record that deducts days from the allowance
  - YearAdjustment: manual adjustment + carry-over for one year

DESIGN PRINCIPLES:
  1. Immutability: calculation inputs are snapshotted, never mutated
  2. Precision: uses decimal.Decimal to avoid floating-point errors
  3. Purity: derived figures are pure functions of the snapshot

SEE ALSO:
  - snapshot.go: validated calculation input
  - calculator.go: derived allowance figures
  - resolver.go: gathers collaborator data and builds the snapshot
*/
package allowance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DEPARTMENT - Owns the allowance policy for its employees
// =============================================================================

type Department struct {
	ID   string
	Name string

	// Allowance is the full-year entitlement in days before any adjustment.
	Allowance decimal.Decimal

	// IsAccruedAllowance: true means the allowance accrues over the year
	// rather than being granted in full on January 1.
	IsAccruedAllowance bool
}

// =============================================================================
// EMPLOYEE - The record the calculation consumes
// =============================================================================

type Employee struct {
	ID    string
	Name  string
	Email string

	// StartDate is the first day of employment. Required.
	StartDate TimePoint

	// EndDate is the last day of employment. Nil means still employed.
	EndDate *TimePoint

	Department Department

	// Leaves holds the employee's leave records once loaded. Nil means not
	// loaded yet; the resolver fetches them from the LeaveProvider. An empty
	// non-nil slice means loaded with no leaves.
	Leaves []Leave
}

// LeavesLoaded reports whether leave records have been loaded.
func (e *Employee) LeavesLoaded() bool { return e.Leaves != nil }

// =============================================================================
// LEAVE - Realized leave record
// =============================================================================

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
	LeaveCanceled LeaveStatus = "canceled"
)

type Leave struct {
	ID         string
	EmployeeID string
	Status     LeaveStatus
	DateStart  TimePoint
	DateEnd    TimePoint

	// DeductedDays is how many days this leave removes from the allowance.
	// Half days are allowed (e.g. 0.5, 2.5).
	DeductedDays decimal.Decimal
}

// Deducts reports whether the leave counts against the allowance.
// Pending requests reserve their days; rejected and canceled ones do not.
func (l Leave) Deducts() bool {
	return l.Status == LeaveApproved || l.Status == LeavePending
}

// DaysTakenFromAllowance sums the deducted days of all counting leaves that
// start in the given year.
func DaysTakenFromAllowance(leaves []Leave, year int) decimal.Decimal {
	total := decimal.Zero
	for _, l := range leaves {
		if !l.Deducts() {
			continue
		}
		if l.DateStart.Year() != year {
			continue
		}
		total = total.Add(l.DeductedDays)
	}
	return total
}

// =============================================================================
// YEAR ADJUSTMENT - Manual correction + carry-over for one calendar year
// =============================================================================

type YearAdjustment struct {
	// Adjustment is a signed manual correction (e.g. HR override).
	Adjustment decimal.Decimal

	// CarriedOver is the signed day count carried from the previous year.
	CarriedOver decimal.Decimal
}
