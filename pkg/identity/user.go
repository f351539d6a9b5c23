package identity

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User lives in the shared identity schema, outside any tenant's isolated
// storage. Tenant data refers to users by plain integer id only.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Suspended    bool       `json:"suspended"`
	Superuser    bool       `json:"superuser"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Store is the user-identity store, addressable by stable integer id
// independent of any tenant schema.
type Store interface {
	// GetByID retrieves a user. Returns ErrUserNotFound on miss.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound on miss.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create inserts a new user and fills in the generated id.
	Create(ctx context.Context, u *User) error

	// SetSuspended flips the user's suspension flag.
	SetSuspended(ctx context.Context, id int64, suspended bool) error
}

// Ref is a late-bound reference to a user in the identity store. It is
// stored as a plain integer and resolved on demand, never eagerly joined,
// because the identity store lives in a different isolation domain.
type Ref int64

// Resolve looks the referenced user up in the given store.
func (r Ref) Resolve(ctx context.Context, store Store) (*User, error) {
	return store.GetByID(ctx, int64(r))
}
