package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound covers both a missing notification id and a mark-all-read call
// for a user with nothing unread.
var ErrNotFound = errors.New("notification not found")

// Kind classifies the bind lifecycle transition a notification reports.
type Kind string

const (
	KindBindRequest  Kind = "BIND_REQUEST"
	KindBindAccepted Kind = "BIND_ACCEPTED"
	KindBindRejected Kind = "BIND_REJECTED"
	KindBindReversed Kind = "BIND_REVERSED"
)

// Notification maps to the notification table. Rows are inserted inside the
// same transaction as the bind mutation they report, so a rolled-back
// transition leaves no trace here.
type Notification struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Message   string     `db:"message" json:"message"`
	Kind      Kind       `db:"kind" json:"kind"`
	BindID    *uuid.UUID `db:"bind_id" json:"bind_id,omitempty"`
	Read      bool       `db:"read" json:"read"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
