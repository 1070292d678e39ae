package bind

import "fmt"

// CanTransition decides whether the actor may apply the event to the Bind.
// It is a pure function with no I/O: party membership comes from the row's
// doctor_id/patient_id, and the self-approval rule compares the actor's role
// tag against created_by_type, which is authoritative while the row is
// PENDING.
//
// Guard order matches the surfaced error semantics: party membership first
// (ErrForbidden), then initiator self-approval (ErrForbidden), then state
// admissibility (ErrInvalidState).
func CanTransition(actor Actor, b *Bind, event Event) error {
	switch event {
	case EventAccept, EventReject:
		if !b.HasParty(actor.ID) {
			return fmt.Errorf("%s bind %s: %w", event, b.ID, ErrForbidden)
		}
		if actor.Role == b.CreatedByType {
			return fmt.Errorf("%s own request on bind %s: %w", event, b.ID, ErrForbidden)
		}
		if b.Status != StatusPending {
			return fmt.Errorf("%s bind %s in status %s: %w", event, b.ID, b.Status, ErrInvalidState)
		}
	case EventUnbind:
		if !b.HasParty(actor.ID) {
			return fmt.Errorf("unbind bind %s: %w", b.ID, ErrForbidden)
		}
		if b.Status != StatusActive {
			return fmt.Errorf("unbind bind %s in status %s: %w", b.ID, b.Status, ErrInvalidState)
		}
	default:
		return fmt.Errorf("unknown event %q: %w", event, ErrInvalidState)
	}
	return nil
}
