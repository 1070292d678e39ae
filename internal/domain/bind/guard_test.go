package bind

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	strangerID := uuid.New()

	mk := func(status Status, createdBy Role) *Bind {
		return &Bind{
			ID:            uuid.New(),
			DoctorID:      doctorID,
			PatientID:     patientID,
			Status:        status,
			CreatedByType: createdBy,
		}
	}

	tests := []struct {
		name    string
		actor   Actor
		bind    *Bind
		event   Event
		wantErr error
	}{
		// Accept: the counterpart of the initiator may accept a pending request.
		{
			name:  "doctor accepts patient-initiated pending",
			actor: Actor{ID: doctorID, Role: RoleDoctor},
			bind:  mk(StatusPending, RolePatient),
			event: EventAccept,
		},
		{
			name:  "patient accepts doctor-initiated pending",
			actor: Actor{ID: patientID, Role: RolePatient},
			bind:  mk(StatusPending, RoleDoctor),
			event: EventAccept,
		},
		{
			name:    "initiating patient cannot accept own request",
			actor:   Actor{ID: patientID, Role: RolePatient},
			bind:    mk(StatusPending, RolePatient),
			event:   EventAccept,
			wantErr: ErrForbidden,
		},
		{
			name:    "initiating doctor cannot accept own request",
			actor:   Actor{ID: doctorID, Role: RoleDoctor},
			bind:    mk(StatusPending, RoleDoctor),
			event:   EventAccept,
			wantErr: ErrForbidden,
		},
		{
			name:    "stranger cannot accept",
			actor:   Actor{ID: strangerID, Role: RoleDoctor},
			bind:    mk(StatusPending, RolePatient),
			event:   EventAccept,
			wantErr: ErrForbidden,
		},
		{
			name:    "accept already active",
			actor:   Actor{ID: doctorID, Role: RoleDoctor},
			bind:    mk(StatusActive, RolePatient),
			event:   EventAccept,
			wantErr: ErrInvalidState,
		},
		{
			name:    "accept rejected",
			actor:   Actor{ID: doctorID, Role: RoleDoctor},
			bind:    mk(StatusRejected, RolePatient),
			event:   EventAccept,
			wantErr: ErrInvalidState,
		},
		{
			name:    "accept reversed",
			actor:   Actor{ID: doctorID, Role: RoleDoctor},
			bind:    mk(StatusReversed, RolePatient),
			event:   EventAccept,
			wantErr: ErrInvalidState,
		},

		// Reject follows the same guard as accept.
		{
			name:  "doctor rejects patient-initiated pending",
			actor: Actor{ID: doctorID, Role: RoleDoctor},
			bind:  mk(StatusPending, RolePatient),
			event: EventReject,
		},
		{
			name:    "initiator cannot reject own request",
			actor:   Actor{ID: patientID, Role: RolePatient},
			bind:    mk(StatusPending, RolePatient),
			event:   EventReject,
			wantErr: ErrForbidden,
		},
		{
			name:    "stranger cannot reject",
			actor:   Actor{ID: strangerID, Role: RolePatient},
			bind:    mk(StatusPending, RoleDoctor),
			event:   EventReject,
			wantErr: ErrForbidden,
		},
		{
			name:    "reject non-pending",
			actor:   Actor{ID: doctorID, Role: RoleDoctor},
			bind:    mk(StatusActive, RolePatient),
			event:   EventReject,
			wantErr: ErrInvalidState,
		},

		// Unbind: either party may reverse an active link, initiator included.
		{
			name:  "doctor unbinds active link",
			actor: Actor{ID: doctorID, Role: RoleDoctor},
			bind:  mk(StatusActive, RolePatient),
			event: EventUnbind,
		},
		{
			name:  "patient unbinds active link they initiated",
			actor: Actor{ID: patientID, Role: RolePatient},
			bind:  mk(StatusActive, RolePatient),
			event: EventUnbind,
		},
		{
			name:    "stranger cannot unbind",
			actor:   Actor{ID: strangerID, Role: RoleDoctor},
			bind:    mk(StatusActive, RolePatient),
			event:   EventUnbind,
			wantErr: ErrForbidden,
		},
		{
			name:    "unbind pending",
			actor:   Actor{ID: doctorID, Role: RoleDoctor},
			bind:    mk(StatusPending, RolePatient),
			event:   EventUnbind,
			wantErr: ErrInvalidState,
		},
		{
			name:    "unbind rejected",
			actor:   Actor{ID: patientID, Role: RolePatient},
			bind:    mk(StatusRejected, RoleDoctor),
			event:   EventUnbind,
			wantErr: ErrInvalidState,
		},
		{
			name:    "unbind reversed",
			actor:   Actor{ID: patientID, Role: RolePatient},
			bind:    mk(StatusReversed, RoleDoctor),
			event:   EventUnbind,
			wantErr: ErrInvalidState,
		},

		{
			name:    "unknown event",
			actor:   Actor{ID: doctorID, Role: RoleDoctor},
			bind:    mk(StatusPending, RolePatient),
			event:   Event("promote"),
			wantErr: ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.actor, tt.bind, tt.event)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCanTransition_PartyCheckedBeforeState(t *testing.T) {
	// A stranger probing a terminal bind must see forbidden, not invalid state.
	b := &Bind{ID: uuid.New(), DoctorID: uuid.New(), PatientID: uuid.New(), Status: StatusRejected, CreatedByType: RolePatient}
	err := CanTransition(Actor{ID: uuid.New(), Role: RoleDoctor}, b, EventAccept)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() || StatusActive.Terminal() {
		t.Error("live statuses must not be terminal")
	}
	if !StatusRejected.Terminal() || !StatusReversed.Terminal() {
		t.Error("rejected and reversed must be terminal")
	}
}

func TestBind_CounterpartOf(t *testing.T) {
	b := &Bind{DoctorID: uuid.New(), PatientID: uuid.New()}
	if b.CounterpartOf(RoleDoctor) != b.PatientID {
		t.Error("doctor's counterpart must be the patient")
	}
	if b.CounterpartOf(RolePatient) != b.DoctorID {
		t.Error("patient's counterpart must be the doctor")
	}
}
