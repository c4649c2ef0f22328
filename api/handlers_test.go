package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/allowance-engine/allowance"
	"github.com/warp/allowance-engine/api"
	"github.com/warp/allowance-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	server := httptest.NewServer(api.NewRouter(api.NewHandler(store)))
	t.Cleanup(server.Close)
	return server, store
}

func seedEmployee(t *testing.T, store *memory.Store, accrued bool) *allowance.Employee {
	t.Helper()
	emp := &allowance.Employee{
		Name:      "Ada",
		Email:     "ada@example.com",
		StartDate: allowance.NewTimePoint(2020, time.March, 1),
		Department: allowance.Department{
			ID:                 "dept-1",
			Name:               "Engineering",
			Allowance:          decimal.NewFromInt(28),
			IsAccruedAllowance: accrued,
		},
	}
	require.NoError(t, store.SaveEmployee(context.Background(), emp))
	return emp
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// ALLOWANCE ENDPOINT
// =============================================================================

func TestGetAllowance_Breakdown(t *testing.T) {
	// GIVEN: Non-accrual employee with a 3.5-day leave and carry-over 4,
	//        adjustment -1.5 for 2025
	// WHEN: GET /api/employees/{id}/allowance?year=2025&asOf=2025-06-15
	// THEN: Available = 28 + 4 - 1.5 - 3.5 = 27

	server, store := newTestServer(t)
	emp := seedEmployee(t, store, false)

	require.NoError(t, store.RecordLeave(context.Background(), allowance.Leave{
		EmployeeID:   emp.ID,
		Status:       allowance.LeaveApproved,
		DateStart:    allowance.NewTimePoint(2025, time.March, 3),
		DateEnd:      allowance.NewTimePoint(2025, time.March, 6),
		DeductedDays: decimal.RequireFromString("3.5"),
	}))
	require.NoError(t, store.SaveYearAdjustment(context.Background(), emp.ID, 2025, allowance.YearAdjustment{
		Adjustment:  decimal.RequireFromString("-1.5"),
		CarriedOver: decimal.NewFromInt(4),
	}))

	var dto api.AllowanceDTO
	status := getJSON(t, fmt.Sprintf("%s/api/employees/%s/allowance?year=2025&asOf=2025-06-15", server.URL, emp.ID), &dto)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2025, dto.Year)
	assert.Equal(t, "2025-06-15", dto.AsOf)
	assert.True(t, dto.Total.Equal(decimal.RequireFromString("30.5")), "total %v", dto.Total)
	assert.True(t, dto.DaysTaken.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, dto.Available.Equal(decimal.NewFromInt(27)), "available %v", dto.Available)
	assert.False(t, dto.IsAccruedAllowance)
}

func TestGetAllowance_AccrualDepartment(t *testing.T) {
	// GIVEN: Accrual-department employee, 28 days/year, no leaves
	// WHEN: Evaluated at year end
	// THEN: Accrued adjustment is 0 and the full entitlement is available

	server, store := newTestServer(t)
	emp := seedEmployee(t, store, true)

	var dto api.AllowanceDTO
	status := getJSON(t, fmt.Sprintf("%s/api/employees/%s/allowance?year=2025&asOf=2025-12-31", server.URL, emp.ID), &dto)

	require.Equal(t, http.StatusOK, status)
	assert.True(t, dto.IsAccruedAllowance)
	assert.True(t, dto.AccruedAdjustment.IsZero(), "accrued %v", dto.AccruedAdjustment)
	assert.True(t, dto.Available.Equal(decimal.NewFromInt(28)), "available %v", dto.Available)
}

func TestGetAllowance_UnknownEmployee_404(t *testing.T) {
	server, _ := newTestServer(t)

	status := getJSON(t, server.URL+"/api/employees/nope/allowance", nil)

	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetAllowance_BadYear_400(t *testing.T) {
	server, store := newTestServer(t)
	emp := seedEmployee(t, store, false)

	status := getJSON(t, fmt.Sprintf("%s/api/employees/%s/allowance?year=banana", server.URL, emp.ID), nil)

	assert.Equal(t, http.StatusBadRequest, status)
}

// =============================================================================
// EMPLOYEE + LEAVE + ADJUSTMENT FLOW
// =============================================================================

func TestCreateEmployeeThenQueryAllowance(t *testing.T) {
	// GIVEN: An employee created over the API, hired July 1 of the query year
	// WHEN: Querying the allowance as of December 31
	// THEN: The mid-year proration applies (28 -> 14)

	server, _ := newTestServer(t)

	body, _ := json.Marshal(api.CreateEmployeeRequest{
		Name:      "Grace",
		Email:     "grace@example.com",
		StartDate: "2025-07-01",
		Department: api.DepartmentDTO{
			Name:      "Support",
			Allowance: decimal.NewFromInt(28),
		},
	})
	resp, err := http.Post(server.URL+"/api/employees", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.EmployeeDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	var dto api.AllowanceDTO
	status := getJSON(t, fmt.Sprintf("%s/api/employees/%s/allowance?year=2025&asOf=2025-12-31", server.URL, created.ID), &dto)

	require.Equal(t, http.StatusOK, status)
	assert.True(t, dto.EmploymentRangeAdjustment.Equal(decimal.NewFromInt(-14)), "proration %v", dto.EmploymentRangeAdjustment)
	assert.True(t, dto.Available.Equal(decimal.NewFromInt(14)), "available %v", dto.Available)
}

func TestRecordLeaveAndSetAdjustment(t *testing.T) {
	server, store := newTestServer(t)
	emp := seedEmployee(t, store, false)

	leaveBody, _ := json.Marshal(api.RecordLeaveRequest{
		Status:       "approved",
		DateStart:    "2025-04-07",
		DateEnd:      "2025-04-08",
		DeductedDays: decimal.NewFromInt(2),
	})
	resp, err := http.Post(fmt.Sprintf("%s/api/employees/%s/leaves", server.URL, emp.ID), "application/json", bytes.NewReader(leaveBody))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	adjBody, _ := json.Marshal(api.SetAdjustmentRequest{
		Adjustment:  decimal.NewFromInt(1),
		CarriedOver: decimal.NewFromInt(2),
	})
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/employees/%s/adjustments/2025", server.URL, emp.ID), bytes.NewReader(adjBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var dto api.AllowanceDTO
	status := getJSON(t, fmt.Sprintf("%s/api/employees/%s/allowance?year=2025&asOf=2025-06-15", server.URL, emp.ID), &dto)

	require.Equal(t, http.StatusOK, status)
	// 28 + 2 + 1 - 2 taken = 29
	assert.True(t, dto.Available.Equal(decimal.NewFromInt(29)), "available %v", dto.Available)
}

func TestRecordLeave_InvalidStatus_400(t *testing.T) {
	server, store := newTestServer(t)
	emp := seedEmployee(t, store, false)

	body, _ := json.Marshal(api.RecordLeaveRequest{
		Status:       "vacationing",
		DateStart:    "2025-04-07",
		DateEnd:      "2025-04-08",
		DeductedDays: decimal.NewFromInt(2),
	})
	resp, err := http.Post(fmt.Sprintf("%s/api/employees/%s/leaves", server.URL, emp.ID), "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errDTO api.ErrorDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errDTO))
	assert.Equal(t, "status", errDTO.Param)
}
