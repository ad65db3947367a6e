package schedule

import "fmt"

// VisualSize maps an appointment's duration to display units:
// (duration in minutes / slotMinutes) × unitsPerSlot. A 60-minute
// appointment at 30-minute slots and 40 units per slot sizes to 80.
// Zero duration is legal and sizes to 0; an end before the start is
// rejected with ErrInvalidDuration.
func VisualSize(a Appointment, unitsPerSlot, slotMinutes int) (float64, error) {
	if slotMinutes <= 0 {
		return 0, fmt.Errorf("%w: %d slot minutes", ErrInvalidWindow, slotMinutes)
	}
	d := a.Duration()
	if d < 0 {
		return 0, fmt.Errorf("%w: %s ends %s before it starts", ErrInvalidDuration, a.ID, a.Start.Sub(a.End))
	}
	return d.Minutes() / float64(slotMinutes) * float64(unitsPerSlot), nil
}
