/*
handlers.go - HTTP API handlers for the allowance engine

PURPOSE:
  Exposes the allowance engine via REST. Handles HTTP request/response and
  JSON serialization, and delegates every calculation to the resolver.

ENDPOINTS:
  Employees:
    GET    /api/employees                          List employees
    POST   /api/employees                          Create employee
    GET    /api/employees/{id}                     Employee details
    GET    /api/employees/{id}/allowance           Allowance breakdown
                                                   ?year=YYYY&asOf=YYYY-MM-DD
  Leaves:
    POST   /api/employees/{id}/leaves              Record a leave

  Adjustments:
    PUT    /api/employees/{id}/adjustments/{year}  Set adjustment + carry-over

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown employee
  - 500: Store failures

SECURITY NOTE:
  No authentication or authorization; out of scope for this service.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/allowance-engine/allowance"
)

// =============================================================================
// HANDLER
// =============================================================================

// Store is the persistence surface the handlers need. Satisfied by both
// store/sqlite.Store and store/memory.Store.
type Store interface {
	allowance.LeaveProvider
	allowance.AdjustmentProvider

	SaveEmployee(ctx context.Context, emp *allowance.Employee) error
	Employee(ctx context.Context, id string) (*allowance.Employee, error)
	ListEmployees(ctx context.Context) ([]allowance.Employee, error)
	RecordLeave(ctx context.Context, l allowance.Leave) error
	SaveYearAdjustment(ctx context.Context, employeeID string, year int, adj allowance.YearAdjustment) error
}

type Handler struct {
	store    Store
	resolver *allowance.Resolver
}

func NewHandler(store Store) *Handler {
	return &Handler{
		store:    store,
		resolver: allowance.NewResolver(store, store),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, emp := range employees {
		dtos = append(dtos, toEmployeeDTO(emp))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body", "")
		return
	}

	startDate, err := allowance.ParseTimePoint(req.StartDate)
	if err != nil {
		writeBadRequest(w, "start_date must be YYYY-MM-DD", "start_date")
		return
	}

	emp := &allowance.Employee{
		Name:      req.Name,
		Email:     req.Email,
		StartDate: startDate,
		Department: allowance.Department{
			ID:                 req.Department.ID,
			Name:               req.Department.Name,
			Allowance:          req.Department.Allowance,
			IsAccruedAllowance: req.Department.IsAccruedAllowance,
		},
	}
	if req.EndDate != nil {
		endDate, err := allowance.ParseTimePoint(*req.EndDate)
		if err != nil {
			writeBadRequest(w, "end_date must be YYYY-MM-DD", "end_date")
			return
		}
		emp.EndDate = &endDate
	}

	if err := h.store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*emp))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.store.Employee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// =============================================================================
// ALLOWANCE HANDLER
// =============================================================================

// GetAllowance runs the resolver for one employee/year pair.
//
// Query parameters:
//
//	year  calendar year to evaluate (default: current UTC year)
//	asOf  evaluation date, YYYY-MM-DD; implies force-now semantics
func (h *Handler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	emp, err := h.store.Employee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	params := allowance.ResolveParams{Employee: emp}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year <= 0 {
			writeBadRequest(w, "year must be a calendar year", "year")
			return
		}
		params.Year = year
	}
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		asOf, err := allowance.ParseTimePoint(raw)
		if err != nil {
			writeBadRequest(w, "asOf must be YYYY-MM-DD", "asOf")
			return
		}
		params.Now = asOf
		params.ForceNow = true
	}

	calc, err := h.resolver.Resolve(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	year := params.Year
	if year == 0 {
		year = calc.Snapshot().Now().Year()
	}
	writeJSON(w, http.StatusOK, toAllowanceDTO(calc, year))
}

// =============================================================================
// LEAVE & ADJUSTMENT HANDLERS
// =============================================================================

func (h *Handler) RecordLeave(w http.ResponseWriter, r *http.Request) {
	var req RecordLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body", "")
		return
	}

	dateStart, err := allowance.ParseTimePoint(req.DateStart)
	if err != nil {
		writeBadRequest(w, "date_start must be YYYY-MM-DD", "date_start")
		return
	}
	dateEnd, err := allowance.ParseTimePoint(req.DateEnd)
	if err != nil {
		writeBadRequest(w, "date_end must be YYYY-MM-DD", "date_end")
		return
	}
	if dateEnd.Before(dateStart) {
		writeBadRequest(w, "date_end before date_start", "date_end")
		return
	}
	status := allowance.LeaveStatus(req.Status)
	switch status {
	case allowance.LeavePending, allowance.LeaveApproved, allowance.LeaveRejected, allowance.LeaveCanceled:
	default:
		writeBadRequest(w, "unknown leave status", "status")
		return
	}
	if req.DeductedDays.IsNegative() {
		writeBadRequest(w, "deducted_days must not be negative", "deducted_days")
		return
	}

	leave := allowance.Leave{
		EmployeeID:   chi.URLParam(r, "id"),
		Status:       status,
		DateStart:    dateStart,
		DateEnd:      dateEnd,
		DeductedDays: req.DeductedDays,
	}
	if err := h.store.RecordLeave(r.Context(), leave); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) SetAdjustment(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		writeBadRequest(w, "year must be a calendar year", "year")
		return
	}

	var req SetAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body", "")
		return
	}

	adj := allowance.YearAdjustment{
		Adjustment:  req.Adjustment,
		CarriedOver: req.CarriedOver,
	}
	if err := h.store.SaveYearAdjustment(r.Context(), chi.URLParam(r, "id"), year, adj); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg, param string) {
	writeJSON(w, http.StatusBadRequest, ErrorDTO{Error: msg, Param: param})
}

func writeError(w http.ResponseWriter, err error) {
	var verr *allowance.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorDTO{Error: verr.Error(), Param: verr.Param})
	case errors.Is(err, allowance.ErrEmployeeNotFound), errors.Is(err, allowance.ErrDepartmentNotFound):
		writeJSON(w, http.StatusNotFound, ErrorDTO{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorDTO{Error: err.Error()})
	}
}
