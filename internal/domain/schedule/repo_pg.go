package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedview/schedview/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PGRepository reads appointments from Postgres. Day and range narrowing
// happen in Go, not SQL, so the memory and Postgres stores share one
// calendar-day semantics.
type PGRepository struct{ pool *pgxpool.Pool }

func NewPGRepository(pool *pgxpool.Pool) *PGRepository { return &PGRepository{pool: pool} }

func (r *PGRepository) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, doctor_id, patient_id, category, status,
	start_time, end_time, note, created_at, updated_at`

func (r *PGRepository) scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Category, &a.Status,
		&a.Start, &a.End, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create inserts one appointment. Only the seed path writes; the viewer API
// is read-only.
func (r *PGRepository) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, category, status, start_time, end_time, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.DoctorID, a.PatientID, a.Category, a.Status, a.Start, a.End, a.Note)
	return err
}

func (r *PGRepository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointments ORDER BY start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PGRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointments WHERE doctor_id = $1 ORDER BY start_time`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PGRepository) ListByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Appointment, error) {
	all, err := r.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return ByDoctorAndDay(doctorID, day, all), nil
}

func (r *PGRepository) ListByDoctorAndRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]Appointment, error) {
	all, err := r.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return ByDoctorAndRange(doctorID, start, end, all), nil
}

func (r *PGRepository) collect(rows pgx.Rows) ([]Appointment, error) {
	items := make([]Appointment, 0)
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}
