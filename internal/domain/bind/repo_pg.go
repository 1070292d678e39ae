package bind

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telecare/telecare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type bindRepoPG struct{ pool *pgxpool.Pool }

func NewBindRepoPG(pool *pgxpool.Pool) BindRepository {
	return &bindRepoPG{pool: pool}
}

func (r *bindRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const bindCols = `id, doctor_id, patient_id, status, created_by_type, message, created_at, updated_at`

// The unique indexes backing the pair invariants; see migrations/002_bind.sql.
// bind_live_pair_idx covers the at-most-one-live-row rule, bind_pair_idx the
// one-row-per-pair recycling model. Two concurrent first-time inserts can
// trip either one first.
const (
	livePairConstraint = "bind_live_pair_idx"
	pairConstraint     = "bind_pair_idx"
)

func (r *bindRepoPG) scanRow(row pgx.Row) (*Bind, error) {
	var b Bind
	err := row.Scan(&b.ID, &b.DoctorID, &b.PatientID, &b.Status, &b.CreatedByType,
		&b.Message, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *bindRepoPG) Create(ctx context.Context, b *Bind) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bind (id, doctor_id, patient_id, status, created_by_type, message)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.DoctorID, b.PatientID, b.Status, b.CreatedByType, b.Message)
	if isUniquePairViolation(err) {
		return fmt.Errorf("pair (%s, %s): %w", b.DoctorID, b.PatientID, ErrConflict)
	}
	return err
}

func (r *bindRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bind, error) {
	b, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+bindCols+` FROM bind WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bind %s: %w", id, ErrNotFound)
	}
	return b, err
}

func (r *bindRepoPG) Update(ctx context.Context, b *Bind) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE bind SET status=$2, created_by_type=$3, message=$4, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.Status, b.CreatedByType, b.Message)
	if isUniquePairViolation(err) {
		return fmt.Errorf("pair (%s, %s): %w", b.DoctorID, b.PatientID, ErrConflict)
	}
	return err
}

// FindByPair locks the matching row for the rest of the transaction so two
// concurrent requests for the same pair serialize on the check.
func (r *bindRepoPG) FindByPair(ctx context.Context, doctorID, patientID uuid.UUID, statuses ...Status) (*Bind, error) {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	b, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `
		SELECT `+bindCols+` FROM bind
		WHERE doctor_id = $1 AND patient_id = $2 AND status = ANY($3)
		FOR UPDATE`,
		doctorID, patientID, ss))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("pair (%s, %s): %w", doctorID, patientID, ErrNotFound)
	}
	return b, err
}

// PendingFor lists every PENDING Bind the actor is a party to, initiated by
// either side. SentBy is the initiator-only subset.
func (r *bindRepoPG) PendingFor(ctx context.Context, actor Actor) ([]*RequestView, error) {
	return r.listViews(ctx, actor, `b.status = 'PENDING'`)
}

func (r *bindRepoPG) SentBy(ctx context.Context, actor Actor) ([]*RequestView, error) {
	return r.listViews(ctx, actor, fmt.Sprintf(`b.status = 'PENDING' AND b.created_by_type = '%s'`, actor.Role))
}

func (r *bindRepoPG) ActiveFor(ctx context.Context, actor Actor) ([]*RequestView, error) {
	return r.listViews(ctx, actor, `b.status = 'ACTIVE'`)
}

// listViews joins the counterpart's display identity. The party and
// counterpart columns are fixed by the actor's role, never by request input.
func (r *bindRepoPG) listViews(ctx context.Context, actor Actor, where string) ([]*RequestView, error) {
	partyCol, counterCol := "b.patient_id", "b.doctor_id"
	if actor.Role == RoleDoctor {
		partyCol, counterCol = "b.doctor_id", "b.patient_id"
	}

	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT b.id, b.status, b.created_by_type, b.message,
			u.id, u.name, u.email, u.role, u.specialty
		FROM bind b
		JOIN user_account u ON u.id = %s
		WHERE %s = $1 AND %s
		ORDER BY b.updated_at DESC`, counterCol, partyCol, where),
		actor.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*RequestView
	for rows.Next() {
		var v RequestView
		if err := rows.Scan(&v.ID, &v.Status, &v.CreatedByType, &v.Message,
			&v.User.ID, &v.User.Name, &v.User.Email, &v.User.Role, &v.User.Specialty); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

func isUniquePairViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return pgErr.ConstraintName == livePairConstraint || pgErr.ConstraintName == pairConstraint
}
