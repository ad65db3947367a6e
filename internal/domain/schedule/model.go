package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/schedview/schedview/internal/domain/directory"
)

// Category classifies an appointment for display. The set is closed:
// Valid reports membership and Color is total over it.
type Category string

const (
	CategoryCheckup      Category = "checkup"
	CategoryConsultation Category = "consultation"
	CategoryFollowUp     Category = "follow_up"
	CategoryProcedure    Category = "procedure"
	CategoryEmergency    Category = "emergency"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCheckup, CategoryConsultation, CategoryFollowUp, CategoryProcedure, CategoryEmergency:
		return true
	}
	return false
}

// defaultColor is used for any category value outside the closed set, so a
// row with an unexpected category still renders instead of losing its style.
const defaultColor = "#9e9e9e"

// Color returns the display color for the category. Total: every known
// variant has an explicit arm and anything else falls back to defaultColor.
func (c Category) Color() string {
	switch c {
	case CategoryCheckup:
		return "#4caf50"
	case CategoryConsultation:
		return "#2196f3"
	case CategoryFollowUp:
		return "#ff9800"
	case CategoryProcedure:
		return "#9c27b0"
	case CategoryEmergency:
		return "#f44336"
	default:
		return defaultColor
	}
}

// Status is the lifecycle state of an appointment as shown in the viewer.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment maps to the appointments table. Appointments are read-only
// inputs to the slot computations: nothing in this package mutates one after
// the data layer hands it out.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Category  Category  `db:"category" json:"category"`
	Status    Status    `db:"status" json:"status"`
	Start     time.Time `db:"start_time" json:"start"`
	End       time.Time `db:"end_time" json:"end"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Duration returns End − Start. Negative when the record is malformed;
// VisualSize rejects that case.
func (a Appointment) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// AppointmentDetail is an appointment joined with its resolved doctor and
// patient. Enrichment never produces a partial detail: if either reference
// is unresolved the whole record is absent.
type AppointmentDetail struct {
	Appointment
	Doctor  directory.Doctor  `json:"doctor"`
	Patient directory.Patient `json:"patient"`
	Color   string            `json:"color"`
}
