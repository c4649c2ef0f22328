/*
Package sqlite provides the SQLite-backed store for the allowance engine.

PURPOSE:
  Persists employees, departments, leave records, and per-year allowance
  adjustments, and implements the resolver's collaborator contracts
  (allowance.LeaveProvider, allowance.AdjustmentProvider) on top of them.

KEY TABLES:
  departments:           Allowance policy per department
  employees:             Employment window + department link
  leaves:                Realized leave records
  allowance_adjustments: Manual adjustment + carry-over, keyed (employee, year)

DATA REPRESENTATION:
  Dates are stored as TEXT in YYYY-MM-DD (lexicographically ordered, so
  range scans work). Day quantities are stored as TEXT and parsed with
  shopspring/decimal - never as REAL, to keep half-day arithmetic exact.

WAL MODE:
  SQLite is opened with WAL for better read concurrency and crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool with versioned migrations.

USAGE:
  store, err := sqlite.New("./data/allowance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  resolver := allowance.NewResolver(store, store)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/allowance-engine/allowance"
)

// Store implements the allowance engine's storage surface using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time checks against the resolver contracts.
var (
	_ allowance.LeaveProvider      = (*Store)(nil)
	_ allowance.AdjustmentProvider = (*Store)(nil)
)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS departments (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		allowance TEXT NOT NULL,
		is_accrued_allowance INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT,
		department_id TEXT NOT NULL REFERENCES departments(id)
	);

	CREATE TABLE IF NOT EXISTS leaves (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		status TEXT NOT NULL,
		date_start TEXT NOT NULL,
		date_end TEXT NOT NULL,
		deducted_days TEXT NOT NULL
	);

	-- Hot path: the resolver loads one employee's leaves for one year.
	CREATE INDEX IF NOT EXISTS idx_leaves_employee_start
		ON leaves(employee_id, date_start);

	CREATE TABLE IF NOT EXISTS allowance_adjustments (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		year INTEGER NOT NULL,
		adjustment TEXT NOT NULL,
		carried_over TEXT NOT NULL,
		PRIMARY KEY (employee_id, year)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee upserts an employee together with its department. An empty
// employee ID is assigned.
func (s *Store) SaveEmployee(ctx context.Context, emp *allowance.Employee) error {
	if emp.ID == "" {
		emp.ID = fmt.Sprintf("emp-%d", time.Now().UnixNano())
	}
	if emp.Department.ID == "" {
		emp.Department.ID = fmt.Sprintf("dept-%d", time.Now().UnixNano())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO departments (id, name, allowance, is_accrued_allowance)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			allowance = excluded.allowance,
			is_accrued_allowance = excluded.is_accrued_allowance`,
		emp.Department.ID, emp.Department.Name,
		emp.Department.Allowance.String(), boolToInt(emp.Department.IsAccruedAllowance))
	if err != nil {
		return err
	}

	var endDate interface{}
	if emp.EndDate != nil {
		endDate = emp.EndDate.String()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, start_date, end_date, department_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			department_id = excluded.department_id`,
		emp.ID, emp.Name, emp.Email, emp.StartDate.String(), endDate, emp.Department.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

const employeeColumns = `
	e.id, e.name, e.email, e.start_date, e.end_date,
	d.id, d.name, d.allowance, d.is_accrued_allowance`

// Employee loads one employee with its department.
func (s *Store) Employee(ctx context.Context, id string) (*allowance.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+`
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		WHERE e.id = ?`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, allowance.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// ListEmployees returns all employees ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]allowance.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+employeeColumns+`
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		ORDER BY e.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []allowance.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*allowance.Employee, error) {
	var (
		emp           allowance.Employee
		startDate     string
		endDate       sql.NullString
		deptAllowance string
		deptIsAccrued int
	)
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &startDate, &endDate,
		&emp.Department.ID, &emp.Department.Name, &deptAllowance, &deptIsAccrued)
	if err != nil {
		return nil, err
	}

	if emp.StartDate, err = allowance.ParseTimePoint(startDate); err != nil {
		return nil, fmt.Errorf("parse start_date: %w", err)
	}
	if endDate.Valid {
		end, err := allowance.ParseTimePoint(endDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse end_date: %w", err)
		}
		emp.EndDate = &end
	}
	if emp.Department.Allowance, err = decimal.NewFromString(deptAllowance); err != nil {
		return nil, fmt.Errorf("parse allowance: %w", err)
	}
	emp.Department.IsAccruedAllowance = deptIsAccrued != 0
	return &emp, nil
}

// =============================================================================
// LEAVES
// =============================================================================

// RecordLeave inserts a leave record. An empty leave ID is assigned.
func (s *Store) RecordLeave(ctx context.Context, l allowance.Leave) error {
	if l.ID == "" {
		l.ID = fmt.Sprintf("leave-%d", time.Now().UnixNano())
	}
	if _, err := s.Employee(ctx, l.EmployeeID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaves (id, employee_id, status, date_start, date_end, deducted_days)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.EmployeeID, string(l.Status),
		l.DateStart.String(), l.DateEnd.String(), l.DeductedDays.String())
	return err
}

// LeavesForYear implements allowance.LeaveProvider. Dates are stored as
// YYYY-MM-DD so the year filter is a lexicographic range scan.
func (s *Store) LeavesForYear(ctx context.Context, employeeID string, year int) ([]allowance.Leave, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, status, date_start, date_end, deducted_days
		FROM leaves
		WHERE employee_id = ? AND date_start >= ? AND date_start <= ?
		ORDER BY date_start`,
		employeeID, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []allowance.Leave{}
	for rows.Next() {
		var (
			l                  allowance.Leave
			status             string
			dateStart, dateEnd string
			deducted           string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &status, &dateStart, &dateEnd, &deducted); err != nil {
			return nil, err
		}
		l.Status = allowance.LeaveStatus(status)
		if l.DateStart, err = allowance.ParseTimePoint(dateStart); err != nil {
			return nil, fmt.Errorf("parse date_start: %w", err)
		}
		if l.DateEnd, err = allowance.ParseTimePoint(dateEnd); err != nil {
			return nil, fmt.Errorf("parse date_end: %w", err)
		}
		if l.DeductedDays, err = decimal.NewFromString(deducted); err != nil {
			return nil, fmt.Errorf("parse deducted_days: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// SaveYearAdjustment upserts the manual adjustment and carry-over for a year.
func (s *Store) SaveYearAdjustment(ctx context.Context, employeeID string, year int, adj allowance.YearAdjustment) error {
	if _, err := s.Employee(ctx, employeeID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allowance_adjustments (employee_id, year, adjustment, carried_over)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, year) DO UPDATE SET
			adjustment = excluded.adjustment,
			carried_over = excluded.carried_over`,
		employeeID, year, adj.Adjustment.String(), adj.CarriedOver.String())
	return err
}

// AdjustmentAndCarryOverForYear implements allowance.AdjustmentProvider.
// A year without a record yields zero values.
func (s *Store) AdjustmentAndCarryOverForYear(ctx context.Context, employeeID string, year int) (allowance.YearAdjustment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT adjustment, carried_over
		FROM allowance_adjustments
		WHERE employee_id = ? AND year = ?`, employeeID, year)

	var adjustment, carried string
	err := row.Scan(&adjustment, &carried)
	if err == sql.ErrNoRows {
		return allowance.YearAdjustment{}, nil
	}
	if err != nil {
		return allowance.YearAdjustment{}, err
	}

	var adj allowance.YearAdjustment
	if adj.Adjustment, err = decimal.NewFromString(adjustment); err != nil {
		return allowance.YearAdjustment{}, fmt.Errorf("parse adjustment: %w", err)
	}
	if adj.CarriedOver, err = decimal.NewFromString(carried); err != nil {
		return allowance.YearAdjustment{}, fmt.Errorf("parse carried_over: %w", err)
	}
	return adj, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
