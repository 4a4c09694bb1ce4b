package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepilot/carepilot/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appointmentCols = `id, patient_id, provider_id, provider_name, specialty,
	status, scheduled_at, duration_minutes, reason, location, notes,
	created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.ProviderName, &a.Specialty,
		&a.Status, &a.ScheduledAt, &a.DurationMinutes, &a.Reason, &a.Location, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, provider_id, provider_name, specialty,
			status, scheduled_at, duration_minutes, reason, location, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.PatientID, a.ProviderID, a.ProviderName, a.Specialty,
		a.Status, a.ScheduledAt, a.DurationMinutes, a.Reason, a.Location, a.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status=$2, scheduled_at=$3, duration_minutes=$4,
			reason=$5, location=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.ScheduledAt, a.DurationMinutes, a.Reason, a.Location, a.Notes)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `patient_id`, patientID, day, limit, offset)
}

func (r *repoPG) ListByProvider(ctx context.Context, providerID string, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `provider_id`, providerID, day, limit, offset)
}

func (r *repoPG) list(ctx context.Context, col, id string, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	where := `WHERE ` + col + ` = $1`
	args := []interface{}{id}
	if !day.IsZero() {
		start := day.Truncate(24 * time.Hour)
		where += ` AND scheduled_at >= $2 AND scheduled_at < $3`
		args = append(args, start, start.Add(24*time.Hour))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + appointmentCols + ` FROM appointments ` + where + ` ORDER BY scheduled_at ASC`
	switch len(args) {
	case 1:
		query += ` LIMIT $2 OFFSET $3`
	case 3:
		query += ` LIMIT $4 OFFSET $5`
	}
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}
