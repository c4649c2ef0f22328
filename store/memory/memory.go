// Package memory provides an in-memory store for testing and dev mode.
// It implements the same surface as store/sqlite.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/allowance-engine/allowance"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu          sync.RWMutex
	employees   map[string]allowance.Employee
	leaves      map[string][]allowance.Leave
	adjustments map[adjKey]allowance.YearAdjustment
	nextID      int
}

type adjKey struct {
	EmployeeID string
	Year       int
}

func New() *Store {
	return &Store{
		employees:   make(map[string]allowance.Employee),
		leaves:      make(map[string][]allowance.Leave),
		adjustments: make(map[adjKey]allowance.YearAdjustment),
	}
}

// Compile-time checks against the resolver contracts.
var (
	_ allowance.LeaveProvider      = (*Store)(nil)
	_ allowance.AdjustmentProvider = (*Store)(nil)
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates an employee. An empty ID is assigned.
// Leave records are managed separately and never stored on the record.
func (s *Store) SaveEmployee(_ context.Context, emp *allowance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		s.nextID++
		emp.ID = fmt.Sprintf("emp-%d", s.nextID)
	}

	stored := *emp
	stored.Leaves = nil
	s.employees[emp.ID] = stored
	return nil
}

func (s *Store) Employee(_ context.Context, id string) (*allowance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return nil, allowance.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]allowance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]allowance.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// LEAVES
// =============================================================================

func (s *Store) RecordLeave(_ context.Context, l allowance.Leave) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[l.EmployeeID]; !ok {
		return allowance.ErrEmployeeNotFound
	}
	if l.ID == "" {
		s.nextID++
		l.ID = fmt.Sprintf("leave-%d", s.nextID)
	}
	s.leaves[l.EmployeeID] = append(s.leaves[l.EmployeeID], l)
	return nil
}

func (s *Store) LeavesForYear(_ context.Context, employeeID string, year int) ([]allowance.Leave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []allowance.Leave{}
	for _, l := range s.leaves[employeeID] {
		if l.DateStart.Year() == year {
			result = append(result, l)
		}
	}
	return result, nil
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func (s *Store) SaveYearAdjustment(_ context.Context, employeeID string, year int, adj allowance.YearAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employeeID]; !ok {
		return allowance.ErrEmployeeNotFound
	}
	s.adjustments[adjKey{EmployeeID: employeeID, Year: year}] = adj
	return nil
}

func (s *Store) AdjustmentAndCarryOverForYear(_ context.Context, employeeID string, year int) (allowance.YearAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Missing record means no adjustment, not an error.
	return s.adjustments[adjKey{EmployeeID: employeeID, Year: year}], nil
}
