package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a doctor or patient reference does not
// resolve. Callers that treat absence as normal (the timeline view skips
// unresolved appointments) test for it with errors.Is.
var ErrNotFound = errors.New("directory: not found")

// Repository resolves doctor and patient references for the viewer.
type Repository interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
	ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
