package schedule

import "time"

// Overlaps reports whether the appointment occupies the slot. Both
// boundaries are inclusive: an appointment ending exactly at the slot's
// start, or starting exactly at the slot's end, counts as overlapping.
// A boundary-aligned appointment therefore shows up in both adjacent
// slots; that is the display contract, so no appointment ever drops out
// of the grid at a slot edge.
func (s Slot) Overlaps(a Appointment) bool {
	return !a.Start.After(s.End) && !a.End.Before(s.Start)
}

// AppointmentsInSlot returns the appointments occupying slot, in input
// order. The input is never mutated; the result is a fresh slice.
func AppointmentsInSlot(slot Slot, appts []Appointment) []Appointment {
	matched := make([]Appointment, 0)
	for _, a := range appts {
		if slot.Overlaps(a) {
			matched = append(matched, a)
		}
	}
	return matched
}

// AppointmentsInSlotOnDay is AppointmentsInSlot restricted to appointments
// whose start falls on the slot's owning calendar day.
func AppointmentsInSlotOnDay(slot Slot, day time.Time, appts []Appointment) []Appointment {
	matched := make([]Appointment, 0)
	for _, a := range appts {
		if SameCalendarDay(a.Start, day) && slot.Overlaps(a) {
			matched = append(matched, a)
		}
	}
	return matched
}
