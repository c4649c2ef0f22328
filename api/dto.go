/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract. Day quantities serialize as JSON numbers via
  decimal's MarshalJSON; dates as YYYY-MM-DD strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request parsing/validation happens in handlers. DTOs are pure carriers.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/allowance-engine/allowance"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	StartDate  string        `json:"start_date"`
	EndDate    *string       `json:"end_date,omitempty"`
	Department DepartmentDTO `json:"department"`
}

type DepartmentDTO struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Allowance          decimal.Decimal `json:"allowance"`
	IsAccruedAllowance bool            `json:"is_accrued_allowance"`
}

type CreateEmployeeRequest struct {
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	StartDate  string        `json:"start_date"`
	EndDate    *string       `json:"end_date,omitempty"`
	Department DepartmentDTO `json:"department"`
}

func toEmployeeDTO(emp allowance.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:        emp.ID,
		Name:      emp.Name,
		Email:     emp.Email,
		StartDate: emp.StartDate.String(),
		Department: DepartmentDTO{
			ID:                 emp.Department.ID,
			Name:               emp.Department.Name,
			Allowance:          emp.Department.Allowance,
			IsAccruedAllowance: emp.Department.IsAccruedAllowance,
		},
	}
	if emp.EndDate != nil {
		s := emp.EndDate.String()
		dto.EndDate = &s
	}
	return dto
}

// =============================================================================
// ALLOWANCE BREAKDOWN
// =============================================================================

// AllowanceDTO is the full breakdown for one employee/year pair.
type AllowanceDTO struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	AsOf       string `json:"as_of"`

	NominalAllowance          decimal.Decimal `json:"nominal_allowance"`
	CarryOver                 decimal.Decimal `json:"carry_over"`
	ManualAdjustment          decimal.Decimal `json:"manual_adjustment"`
	EmploymentRangeAdjustment decimal.Decimal `json:"employment_range_adjustment"`
	AccruedAdjustment         decimal.Decimal `json:"accrued_adjustment"`
	IsAccruedAllowance        bool            `json:"is_accrued_allowance"`

	Total     decimal.Decimal `json:"total_number_of_days_in_allowance"`
	DaysTaken decimal.Decimal `json:"number_of_days_taken_from_allowance"`
	Available decimal.Decimal `json:"number_of_days_available_in_allowance"`
}

func toAllowanceDTO(calc allowance.Calculator, year int) AllowanceDTO {
	snap := calc.Snapshot()
	return AllowanceDTO{
		EmployeeID:                snap.Employee().ID,
		Year:                      year,
		AsOf:                      snap.Now().String(),
		NominalAllowance:          snap.NominalAllowance(),
		CarryOver:                 snap.CarryOver(),
		ManualAdjustment:          snap.ManualAdjustment(),
		EmploymentRangeAdjustment: calc.EmploymentRangeAdjustment(),
		AccruedAdjustment:         calc.AccruedAdjustment(),
		IsAccruedAllowance:        calc.IsAccruedAllowance(),
		Total:                     calc.TotalDaysInAllowance(),
		DaysTaken:                 snap.DaysTaken(),
		Available:                 calc.AvailableDays(),
	}
}

// =============================================================================
// LEAVES & ADJUSTMENTS
// =============================================================================

type RecordLeaveRequest struct {
	Status       string          `json:"status"`
	DateStart    string          `json:"date_start"`
	DateEnd      string          `json:"date_end"`
	DeductedDays decimal.Decimal `json:"deducted_days"`
}

type SetAdjustmentRequest struct {
	Adjustment  decimal.Decimal `json:"adjustment"`
	CarriedOver decimal.Decimal `json:"carried_over"`
}

// ErrorDTO is the JSON error envelope.
type ErrorDTO struct {
	Error string `json:"error"`
	Param string `json:"param,omitempty"`
}
