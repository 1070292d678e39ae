package bind

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/telecare/telecare/internal/platform/db"
)

// UserRef is the directory's view of a user: identifier, role tag and the
// display name used in notification text.
type UserRef struct {
	ID   uuid.UUID
	Role Role
	Name string
}

// UserDirectory resolves user ids during send_bind_request. Implementations
// return an error wrapping ErrNotFound when the id is unknown.
type UserDirectory interface {
	Resolve(ctx context.Context, id uuid.UUID) (*UserRef, error)
}

// NoticeKind classifies the notification emitted by a lifecycle transition.
type NoticeKind string

const (
	NoticeBindRequest  NoticeKind = "BIND_REQUEST"
	NoticeBindAccepted NoticeKind = "BIND_ACCEPTED"
	NoticeBindRejected NoticeKind = "BIND_REJECTED"
	NoticeBindReversed NoticeKind = "BIND_REVERSED"
)

// Emitter records a human-readable event for the counterpart user. It is
// called exactly once per transition, inside the same transaction as the Bind
// mutation, so the notification commits or rolls back with the row.
type Emitter interface {
	Emit(ctx context.Context, userID uuid.UUID, message string, kind NoticeKind, bindID uuid.UUID) error
}

// Service owns the Bind state machine. Every public operation runs inside a
// single transaction: guard checks, the row mutation and the notification
// insert commit together or not at all.
type Service struct {
	repo     BindRepository
	users    UserDirectory
	notifier Emitter
	tx       db.TxRunner
}

func NewService(repo BindRepository, users UserDirectory, notifier Emitter, tx db.TxRunner) *Service {
	return &Service{repo: repo, users: users, notifier: notifier, tx: tx}
}

// SendRequest creates or recycles the Bind between the actor and the target
// user, leaving it PENDING with the actor recorded as initiator.
//
// A REJECTED or REVERSED row for the pair is flipped back to PENDING under
// the same id rather than superseded; history is collapsed, not preserved
// per-cycle.
func (s *Service) SendRequest(ctx context.Context, actor Actor, targetID uuid.UUID, message string) (*Bind, error) {
	if !actor.Role.Valid() {
		return nil, fmt.Errorf("role %q cannot hold a link: %w", actor.Role, ErrValidation)
	}
	if actor.ID == targetID {
		return nil, fmt.Errorf("cannot send a link request to yourself: %w", ErrValidation)
	}

	var out *Bind
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.users.Resolve(ctx, targetID)
		if err != nil {
			return fmt.Errorf("resolve target user: %w", err)
		}
		if target.Role == actor.Role {
			return fmt.Errorf("doctors can only link patients and vice versa: %w", ErrValidation)
		}

		doctorID, patientID := actor.ID, targetID
		if actor.Role == RolePatient {
			doctorID, patientID = targetID, actor.ID
		}

		if _, err := s.repo.FindByPair(ctx, doctorID, patientID, StatusPending, StatusActive); err == nil {
			return fmt.Errorf("pair (%s, %s): %w", doctorID, patientID, ErrConflict)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		var msg *string
		if message != "" {
			msg = &message
		}

		b, err := s.repo.FindByPair(ctx, doctorID, patientID, StatusRejected, StatusReversed)
		switch {
		case err == nil:
			b.Status = StatusPending
			b.CreatedByType = actor.Role
			b.Message = msg
			if err := s.repo.Update(ctx, b); err != nil {
				return err
			}
		case errors.Is(err, ErrNotFound):
			b = &Bind{
				DoctorID:      doctorID,
				PatientID:     patientID,
				Status:        StatusPending,
				CreatedByType: actor.Role,
				Message:       msg,
			}
			if err := s.repo.Create(ctx, b); err != nil {
				return err
			}
		default:
			return err
		}

		sender, err := s.users.Resolve(ctx, actor.ID)
		if err != nil {
			return fmt.Errorf("resolve sender: %w", err)
		}
		text := fmt.Sprintf("The %s %s sent you a link request.", roleWord(actor.Role), sender.Name)
		if msg != nil {
			text = fmt.Sprintf("The %s %s sent you a link request: %q", roleWord(actor.Role), sender.Name, *msg)
		}
		if err := s.notifier.Emit(ctx, targetID, text, NoticeBindRequest, b.ID); err != nil {
			return err
		}

		out = b
		return nil
	})
	return out, err
}

// Accept moves a PENDING Bind to ACTIVE. The initiator of the current cycle
// cannot accept their own request.
func (s *Service) Accept(ctx context.Context, actor Actor, bindID uuid.UUID) (*Bind, error) {
	return s.transition(ctx, actor, bindID, EventAccept, StatusActive,
		NoticeBindAccepted, "accepted your link request")
}

// Reject moves a PENDING Bind to REJECTED.
func (s *Service) Reject(ctx context.Context, actor Actor, bindID uuid.UUID) (*Bind, error) {
	return s.transition(ctx, actor, bindID, EventReject, StatusRejected,
		NoticeBindRejected, "rejected your link request")
}

// Unbind moves an ACTIVE Bind to REVERSED. Either party may reverse the link.
func (s *Service) Unbind(ctx context.Context, actor Actor, bindID uuid.UUID) (*Bind, error) {
	return s.transition(ctx, actor, bindID, EventUnbind, StatusReversed,
		NoticeBindReversed, "reversed the active link")
}

func (s *Service) transition(ctx context.Context, actor Actor, bindID uuid.UUID, event Event, to Status, kind NoticeKind, verb string) (*Bind, error) {
	var out *Bind
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByID(ctx, bindID)
		if err != nil {
			return err
		}
		if err := CanTransition(actor, b, event); err != nil {
			return err
		}

		b.Status = to
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}

		acting, err := s.users.Resolve(ctx, actor.ID)
		if err != nil {
			return fmt.Errorf("resolve actor: %w", err)
		}
		text := fmt.Sprintf("The %s %s %s.", roleWord(actor.Role), acting.Name, verb)
		if err := s.notifier.Emit(ctx, b.CounterpartOf(actor.Role), text, kind, b.ID); err != nil {
			return err
		}

		out = b
		return nil
	})
	return out, err
}

// -- Query facade: pure reads, scoped to the actor's own id --

// PendingRequestsFor lists PENDING Binds the actor is a party to, joined with
// the counterpart's display identity.
func (s *Service) PendingRequestsFor(ctx context.Context, actor Actor) ([]*RequestView, error) {
	if !actor.Role.Valid() {
		return nil, fmt.Errorf("role %q cannot hold a link: %w", actor.Role, ErrValidation)
	}
	return s.repo.PendingFor(ctx, actor)
}

// SentRequestsBy lists PENDING Binds the actor initiated in the current cycle.
func (s *Service) SentRequestsBy(ctx context.Context, actor Actor) ([]*RequestView, error) {
	if !actor.Role.Valid() {
		return nil, fmt.Errorf("role %q cannot hold a link: %w", actor.Role, ErrValidation)
	}
	return s.repo.SentBy(ctx, actor)
}

// ActiveLinksFor lists ACTIVE Binds the actor is a party to.
func (s *Service) ActiveLinksFor(ctx context.Context, actor Actor) ([]*RequestView, error) {
	if !actor.Role.Valid() {
		return nil, fmt.Errorf("role %q cannot hold a link: %w", actor.Role, ErrValidation)
	}
	return s.repo.ActiveFor(ctx, actor)
}

func roleWord(r Role) string {
	if r == RoleDoctor {
		return "doctor"
	}
	return "patient"
}
