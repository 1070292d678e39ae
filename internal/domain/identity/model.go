package identity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user id resolves to nothing.
var ErrNotFound = errors.New("user not found")

// Role is the user's platform role. Patients and doctors are rows of the same
// table distinguished by this tag; authorization elsewhere dispatches on it.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// User maps to the user_account table. Registration and credential handling
// live upstream; this service is the read-side directory the rest of the
// platform resolves ids against.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Role      Role      `db:"role" json:"role"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
