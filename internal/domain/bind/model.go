package bind

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Bind.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusRejected Status = "REJECTED"
	StatusReversed Status = "REVERSED"
)

// Terminal reports whether the status can only be left by a new request cycle.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusReversed
}

// Role identifies which side of the doctor/patient relationship an actor is on.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// Valid reports whether the role is one of the two link-capable roles.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// Actor is the authenticated user invoking a lifecycle operation. Authorization
// dispatches purely on the role tag; no user record lookup is needed to decide
// whether a transition is permitted.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Event is a guarded transition on a Bind.
type Event string

const (
	EventAccept Event = "accept"
	EventReject Event = "reject"
	EventUnbind Event = "unbind"
)

// Bind maps to the bind table: the linking relationship between exactly one
// doctor and one patient. Rows are never hard-deleted; a REJECTED or REVERSED
// row is recycled back to PENDING by the next request for the same pair.
type Bind struct {
	ID            uuid.UUID `db:"id" json:"id"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	Status        Status    `db:"status" json:"status"`
	CreatedByType Role      `db:"created_by_type" json:"created_by_type"`
	Message       *string   `db:"message" json:"message,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// HasParty reports whether the given user id is one of the two parties.
func (b *Bind) HasParty(id uuid.UUID) bool {
	return id == b.DoctorID || id == b.PatientID
}

// CounterpartOf returns the id of the other party relative to the given role.
func (b *Bind) CounterpartOf(role Role) uuid.UUID {
	if role == RoleDoctor {
		return b.PatientID
	}
	return b.DoctorID
}

// PartyOf returns the id of the party holding the given role.
func (b *Bind) PartyOf(role Role) uuid.UUID {
	if role == RoleDoctor {
		return b.DoctorID
	}
	return b.PatientID
}

// Counterpart is the display identity of the other party to a Bind, joined in
// by the read-side queries so presentation layers can render a request list
// without extra lookups.
type Counterpart struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
}

// RequestView is a read-only projection of a Bind plus the counterpart
// identity, scoped to the requesting actor.
type RequestView struct {
	ID            uuid.UUID   `json:"id"`
	Status        Status      `json:"status"`
	CreatedByType Role        `json:"created_by_type"`
	Message       *string     `json:"message,omitempty"`
	User          Counterpart `json:"user"`
}
