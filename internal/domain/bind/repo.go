package bind

import (
	"context"

	"github.com/google/uuid"
)

// BindRepository is the persistence boundary of the lifecycle engine. The
// engine exclusively owns writes; the read-side projections never mutate.
//
// Implementations must join the transaction carried by the context when one
// is present, so that a lifecycle mutation and its notification insert commit
// or roll back together.
type BindRepository interface {
	Create(ctx context.Context, b *Bind) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bind, error)
	Update(ctx context.Context, b *Bind) error

	// FindByPair returns the single Bind for the (doctor, patient) pair whose
	// status is one of the given statuses, or ErrNotFound.
	FindByPair(ctx context.Context, doctorID, patientID uuid.UUID, statuses ...Status) (*Bind, error)

	// Read-side projections, scoped to the actor's own id.
	PendingFor(ctx context.Context, actor Actor) ([]*RequestView, error)
	SentBy(ctx context.Context, actor Actor) ([]*RequestView, error)
	ActiveFor(ctx context.Context, actor Actor) ([]*RequestView, error)
}
