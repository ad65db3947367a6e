package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/schedview/schedview/internal/domain/directory"
)

// AppointmentView is one appointment as the calendar draws it: resolved
// patient name, category colour and the block height in drawing units.
type AppointmentView struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Category    Category  `json:"category"`
	Color       string    `json:"color"`
	Status      Status    `json:"status"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Note        *string   `json:"note,omitempty"`
	Size        float64   `json:"size"`
}

// SlotView is one working-day slot with the appointments that touch it. A
// boundary-aligned appointment shows up in both slots it touches.
type SlotView struct {
	Slot
	Appointments []AppointmentView `json:"appointments"`
}

// DayView is one doctor's rendered calendar day. Groups lists the overlap
// clusters by appointment ID so a client can lay concurrent blocks out
// side by side.
type DayView struct {
	Doctor directory.Doctor `json:"doctor"`
	Day    time.Time        `json:"day"`
	Slots  []SlotView       `json:"slots"`
	Groups [][]uuid.UUID    `json:"groups"`
}

// RangeView is a run of consecutive day views, one per day of the half-open
// range [Start, End).
type RangeView struct {
	Doctor directory.Doctor `json:"doctor"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Days   []DayView        `json:"days"`
}

// buildDayView assembles the pure view: slot grid, per-slot matches,
// overlap clusters and block sizes. It touches no store and is safe to
// call repeatedly with the same input.
func buildDayView(doc directory.Doctor, day time.Time, details []AppointmentDetail, cfg WindowConfig) (*DayView, error) {
	slots, err := SlotsFor(day, cfg)
	if err != nil {
		return nil, err
	}

	appts := make([]Appointment, len(details))
	views := make(map[uuid.UUID]AppointmentView, len(details))
	for i, d := range details {
		appts[i] = d.Appointment
		size, err := VisualSize(d.Appointment, cfg.UnitsPerSlot, cfg.SlotMinutes)
		if err != nil {
			return nil, err
		}
		views[d.ID] = AppointmentView{
			ID:          d.ID,
			PatientID:   d.PatientID,
			PatientName: d.Patient.Name,
			Category:    d.Category,
			Color:       d.Color,
			Status:      d.Status,
			Start:       d.Start,
			End:         d.End,
			Note:        d.Note,
			Size:        size,
		}
	}

	slotViews := make([]SlotView, len(slots))
	for i, slot := range slots {
		matched := AppointmentsInSlotOnDay(slot, day, appts)
		vs := make([]AppointmentView, len(matched))
		for j, a := range matched {
			vs[j] = views[a.ID]
		}
		slotViews[i] = SlotView{Slot: slot, Appointments: vs}
	}

	clusters := GroupOverlapping(appts)
	groups := make([][]uuid.UUID, len(clusters))
	for i, cluster := range clusters {
		ids := make([]uuid.UUID, len(cluster))
		for j, a := range cluster {
			ids[j] = a.ID
		}
		groups[i] = ids
	}

	return &DayView{Doctor: doc, Day: StartOfDay(day), Slots: slotViews, Groups: groups}, nil
}

func detailsOnDay(details []AppointmentDetail, day time.Time) []AppointmentDetail {
	matched := make([]AppointmentDetail, 0)
	for _, d := range details {
		if SameCalendarDay(d.Start, day) {
			matched = append(matched, d)
		}
	}
	return matched
}
