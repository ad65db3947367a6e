package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps the appointment collection in process memory. It is
// the default store for demos and tests. Reads hand out copies, so a running
// computation keeps a stable snapshot even while Seed or Put replaces data
// underneath it.
type MemoryRepository struct {
	mu    sync.RWMutex
	appts []Appointment
}

// NewMemoryRepository builds a store pre-loaded with the given appointments.
func NewMemoryRepository(appts ...Appointment) *MemoryRepository {
	r := &MemoryRepository{}
	r.Seed(appts)
	return r
}

// Seed atomically replaces the whole collection.
func (r *MemoryRepository) Seed(appts []Appointment) {
	cp := make([]Appointment, len(appts))
	copy(cp, appts)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Start.Before(cp[j].Start) })

	r.mu.Lock()
	r.appts = cp
	r.mu.Unlock()
}

// Put inserts an appointment, or replaces the stored one with the same ID.
func (r *MemoryRepository) Put(a Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := false
	for i := range r.appts {
		if r.appts[i].ID == a.ID {
			r.appts[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		r.appts = append(r.appts, a)
	}
	sort.SliceStable(r.appts, func(i, j int) bool { return r.appts[i].Start.Before(r.appts[j].Start) })
}

func (r *MemoryRepository) snapshot() []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := make([]Appointment, len(r.appts))
	copy(cp, r.appts)
	return cp
}

func (r *MemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	return r.snapshot(), nil
}

func (r *MemoryRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	all := r.snapshot()
	out := make([]Appointment, 0, len(all))
	for _, a := range all {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Appointment, error) {
	return ByDoctorAndDay(doctorID, day, r.snapshot()), nil
}

func (r *MemoryRepository) ListByDoctorAndRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]Appointment, error) {
	return ByDoctorAndRange(doctorID, start, end, r.snapshot()), nil
}
