package schedule

import (
	"time"

	"github.com/google/uuid"
)

// SameCalendarDay reports whether a and b fall on the same (year, month,
// day-of-month) triple in their local representation. Comparing the triple
// directly, with no UTC conversion, keeps appointments near midnight on the
// day the clinic sees them.
func SameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfDay returns t truncated to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ByDoctorAndDay returns the appointments for doctorID whose start falls on
// day's calendar day. No matches is an empty slice, never an error.
func ByDoctorAndDay(doctorID uuid.UUID, day time.Time, appts []Appointment) []Appointment {
	matched := make([]Appointment, 0)
	for _, a := range appts {
		if a.DoctorID == doctorID && SameCalendarDay(a.Start, day) {
			matched = append(matched, a)
		}
	}
	return matched
}

// ByDoctorAndRange returns the appointments for doctorID whose start day
// falls in [startDay, endDay): start inclusive, end exclusive, compared at
// day granularity. A seven-day week view is exactly
// endDay = startDay.AddDate(0, 0, 7).
func ByDoctorAndRange(doctorID uuid.UUID, startDay, endDay time.Time, appts []Appointment) []Appointment {
	from := StartOfDay(startDay)
	to := StartOfDay(endDay)
	matched := make([]Appointment, 0)
	for _, a := range appts {
		if a.DoctorID != doctorID {
			continue
		}
		day := StartOfDay(a.Start)
		if !day.Before(from) && day.Before(to) {
			matched = append(matched, a)
		}
	}
	return matched
}
