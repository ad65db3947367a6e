package directory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps the doctor and patient registries in process
// memory. It backs demos and tests; lookups return copies.
type MemoryRepository struct {
	mu       sync.RWMutex
	doctors  []Doctor
	patients []Patient
}

func NewMemoryRepository(doctors []Doctor, patients []Patient) *MemoryRepository {
	r := &MemoryRepository{}
	r.SeedDoctors(doctors)
	r.SeedPatients(patients)
	return r
}

// SeedDoctors atomically replaces the doctor registry.
func (r *MemoryRepository) SeedDoctors(doctors []Doctor) {
	cp := make([]Doctor, len(doctors))
	copy(cp, doctors)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })

	r.mu.Lock()
	r.doctors = cp
	r.mu.Unlock()
}

// SeedPatients atomically replaces the patient registry.
func (r *MemoryRepository) SeedPatients(patients []Patient) {
	cp := make([]Patient, len(patients))
	copy(cp, patients)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })

	r.mu.Lock()
	r.patients = cp
	r.mu.Unlock()
}

func (r *MemoryRepository) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.ID == id {
			cp := d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.patients {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.doctors)
	items := make([]*Doctor, 0)
	for i := offset; i < total && len(items) < limit; i++ {
		cp := r.doctors[i]
		items = append(items, &cp)
	}
	return items, total, nil
}

func (r *MemoryRepository) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.patients)
	items := make([]*Patient, 0)
	for i := offset; i < total && len(items) < limit; i++ {
		cp := r.patients[i]
		items = append(items, &cp)
	}
	return items, total, nil
}
