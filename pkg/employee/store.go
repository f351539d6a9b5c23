package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/washlane/washlane/pkg/registrar"
)

// Store reads and writes employee records for one business.
type Store interface {
	// GetByUserID retrieves the employee record for a user. Returns
	// ErrEmployeeNotFound when the user is not part of the business.
	GetByUserID(ctx context.Context, userID int64) (*Employee, error)

	// GetOrCreateOwner returns the owner-role record for the user,
	// creating it when absent. Concurrent first calls for the same user
	// yield exactly one record.
	GetOrCreateOwner(ctx context.Context, userID int64) (*Employee, error)

	// Create inserts a new employee record.
	Create(ctx context.Context, emp *Employee) error

	// SetStatus updates an employee's standing.
	SetStatus(ctx context.Context, userID int64, status Status) error

	// List returns all employees of the business.
	List(ctx context.Context) ([]Employee, error)
}

// SchemaStore implements Store against the employees table of one tenant
// schema. Queries use unqualified table names; the registrar handle binds
// the search_path, so the same code serves every tenant.
type SchemaStore struct {
	handle *registrar.Handle
}

// NewStore creates an employee store bound to a tenant's schema handle.
func NewStore(handle *registrar.Handle) *SchemaStore {
	return &SchemaStore{handle: handle}
}

const employeeColumns = `id, user_id, role, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.UserID, &e.Role, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &e, nil
}

func (s *SchemaStore) GetByUserID(ctx context.Context, userID int64) (*Employee, error) {
	conn, err := s.handle.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return scanEmployee(conn.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE user_id = $1`, userID))
}

func (s *SchemaStore) GetOrCreateOwner(ctx context.Context, userID int64) (*Employee, error) {
	conn, err := s.handle.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	// Insert-then-select: ON CONFLICT DO NOTHING makes the insert a no-op
	// when a concurrent request won the race, and the follow-up select
	// returns whichever row exists.
	_, err = conn.Exec(ctx,
		`INSERT INTO employees (id, user_id, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 ON CONFLICT (user_id) DO NOTHING`,
		uuid.New(), userID, RoleOwner, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("ensure owner employee: %w", err)
	}

	return scanEmployee(conn.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE user_id = $1`, userID))
}

func (s *SchemaStore) Create(ctx context.Context, emp *Employee) error {
	conn, err := s.handle.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	_, err = conn.Exec(ctx,
		`INSERT INTO employees (id, user_id, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		emp.ID, emp.UserID, emp.Role, emp.Status, emp.CreatedAt, emp.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmployee
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *SchemaStore) SetStatus(ctx context.Context, userID int64, status Status) error {
	conn, err := s.handle.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx,
		`UPDATE employees SET status = $2, updated_at = now() WHERE user_id = $1`,
		userID, status)
	if err != nil {
		return fmt.Errorf("set employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *SchemaStore) List(ctx context.Context) ([]Employee, error) {
	conn, err := s.handle.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.Role, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
