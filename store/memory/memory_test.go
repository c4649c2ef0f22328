package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/allowance-engine/allowance"
	"github.com/warp/allowance-engine/store/memory"
)

func seedEmployee(t *testing.T, store *memory.Store) *allowance.Employee {
	t.Helper()
	emp := &allowance.Employee{
		Name:      "Ada",
		StartDate: allowance.NewTimePoint(2020, time.March, 1),
		Department: allowance.Department{
			ID:        "dept-1",
			Name:      "Engineering",
			Allowance: decimal.NewFromInt(28),
		},
	}
	require.NoError(t, store.SaveEmployee(context.Background(), emp))
	return emp
}

func TestSaveEmployee_AssignsIDAndRoundTrips(t *testing.T) {
	store := memory.New()
	emp := seedEmployee(t, store)

	require.NotEmpty(t, emp.ID)

	out, err := store.Employee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.Name)
	assert.Nil(t, out.Leaves, "leaves are loaded separately")

	_, err = store.Employee(context.Background(), "nope")
	assert.ErrorIs(t, err, allowance.ErrEmployeeNotFound)
}

func TestLeavesForYear_FiltersAndNeverNil(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	emp := seedEmployee(t, store)

	require.NoError(t, store.RecordLeave(ctx, allowance.Leave{
		EmployeeID:   emp.ID,
		Status:       allowance.LeaveApproved,
		DateStart:    allowance.NewTimePoint(2025, time.March, 3),
		DateEnd:      allowance.NewTimePoint(2025, time.March, 4),
		DeductedDays: decimal.NewFromInt(2),
	}))
	require.NoError(t, store.RecordLeave(ctx, allowance.Leave{
		EmployeeID:   emp.ID,
		Status:       allowance.LeaveApproved,
		DateStart:    allowance.NewTimePoint(2024, time.December, 30),
		DateEnd:      allowance.NewTimePoint(2025, time.January, 2),
		DeductedDays: decimal.NewFromInt(3),
	}))

	leaves, err := store.LeavesForYear(ctx, emp.ID, 2025)
	require.NoError(t, err)
	assert.Len(t, leaves, 1)

	none, err := store.LeavesForYear(ctx, emp.ID, 2023)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAdjustments_DefaultZero(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	emp := seedEmployee(t, store)

	adj, err := store.AdjustmentAndCarryOverForYear(ctx, emp.ID, 2025)
	require.NoError(t, err)
	assert.True(t, adj.Adjustment.IsZero())
	assert.True(t, adj.CarriedOver.IsZero())

	require.NoError(t, store.SaveYearAdjustment(ctx, emp.ID, 2025, allowance.YearAdjustment{
		Adjustment:  decimal.NewFromInt(1),
		CarriedOver: decimal.NewFromInt(2),
	}))
	adj, err = store.AdjustmentAndCarryOverForYear(ctx, emp.ID, 2025)
	require.NoError(t, err)
	assert.True(t, adj.Adjustment.Equal(decimal.NewFromInt(1)))
	assert.True(t, adj.CarriedOver.Equal(decimal.NewFromInt(2)))
}

func TestRecordLeave_UnknownEmployee_Rejected(t *testing.T) {
	store := memory.New()

	err := store.RecordLeave(context.Background(), allowance.Leave{
		EmployeeID:   "nope",
		Status:       allowance.LeaveApproved,
		DateStart:    allowance.NewTimePoint(2025, time.March, 3),
		DateEnd:      allowance.NewTimePoint(2025, time.March, 4),
		DeductedDays: decimal.NewFromInt(1),
	})

	assert.ErrorIs(t, err, allowance.ErrEmployeeNotFound)
}
