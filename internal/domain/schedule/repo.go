package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the appointment collection the viewer reads. It is injected
// into the service explicitly; nothing in this package reaches for ambient
// process-wide state. Every method returns an immutable snapshot: callers
// may hold and filter the slices freely.
type Repository interface {
	// List returns every appointment, ordered by start time.
	List(ctx context.Context) ([]Appointment, error)
	// ListByDoctor returns the doctor's appointments, ordered by start time.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	// ListByDoctorAndDay narrows ListByDoctor to one calendar day
	// (local (year, month, day) triple of the appointment start).
	ListByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Appointment, error)
	// ListByDoctorAndRange narrows ListByDoctor to the half-open day range
	// [startOfDay(start), startOfDay(end)).
	ListByDoctorAndRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]Appointment, error)
}
