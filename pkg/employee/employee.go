package employee

import (
	"time"

	"github.com/google/uuid"
)

// Role is an employee's role within one business.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Status is an employee's standing within one business.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Employee is a user's membership record inside one tenant's schema. The
// user itself lives in shared identity storage; UserID is a plain integer
// reference, never a cross-schema foreign key.
type Employee struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the employee may act within the business.
func (e *Employee) IsActive() bool {
	return e != nil && e.Status == StatusActive
}

// IsOwner reports whether the employee holds the owner role.
func (e *Employee) IsOwner() bool {
	return e != nil && e.Role == RoleOwner
}
