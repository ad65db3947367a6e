package schedule

import (
	"fmt"
	"time"
)

// slotLabelFormat renders a slot's start as e.g. "8:00 AM".
const slotLabelFormat = "3:04 PM"

// Slot is one fixed-width interval of a day's display window. End is
// exclusive. Slots are computed per request and never stored.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// WindowConfig describes the displayed portion of a day: hours
// [StartHour, EndHour) partitioned into SlotMinutes-wide slots, with
// UnitsPerSlot visual units allotted to one slot when sizing appointments.
type WindowConfig struct {
	StartHour    int
	EndHour      int
	SlotMinutes  int
	UnitsPerSlot int
}

// DefaultWindowConfig returns the stock clinic-day window: 8:00-18:00 in
// 30-minute slots, 40 units per slot.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{StartHour: 8, EndHour: 18, SlotMinutes: 30, UnitsPerSlot: 40}
}

// GenerateSlots partitions the window [windowStartHour, windowEndHour) of
// referenceDay's calendar day into slotMinutes-wide slots. Only the calendar
// day of referenceDay matters; its time of day is ignored and its location
// is kept. The result is ordered, contiguous and non-overlapping: slot i
// ends exactly where slot i+1 starts, the first slot starts at
// windowStartHour:00 and the last ends at windowEndHour:00.
//
// The window is rejected with ErrInvalidWindow when the end hour does not
// come after the start hour, when either hour is outside [0, 24], or when
// slotMinutes is not a positive divisor of 60.
func GenerateSlots(referenceDay time.Time, windowStartHour, windowEndHour, slotMinutes int) ([]Slot, error) {
	if windowStartHour < 0 || windowEndHour > 24 {
		return nil, fmt.Errorf("%w: hours %d-%d outside [0,24]", ErrInvalidWindow, windowStartHour, windowEndHour)
	}
	if windowEndHour <= windowStartHour {
		return nil, fmt.Errorf("%w: end hour %d not after start hour %d", ErrInvalidWindow, windowEndHour, windowStartHour)
	}
	if slotMinutes <= 0 || 60%slotMinutes != 0 {
		return nil, fmt.Errorf("%w: %d minutes does not evenly divide an hour", ErrInvalidWindow, slotMinutes)
	}

	year, month, day := referenceDay.Date()
	loc := referenceDay.Location()

	count := (windowEndHour - windowStartHour) * 60 / slotMinutes
	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		start := time.Date(year, month, day, windowStartHour, i*slotMinutes, 0, 0, loc)
		end := time.Date(year, month, day, windowStartHour, (i+1)*slotMinutes, 0, 0, loc)
		slots = append(slots, Slot{Start: start, End: end, Label: start.Format(slotLabelFormat)})
	}
	return slots, nil
}

// SlotsFor returns the display slots for day under cfg. Deterministic:
// identical day and cfg always yield element-wise-equal slices.
func SlotsFor(day time.Time, cfg WindowConfig) ([]Slot, error) {
	return GenerateSlots(day, cfg.StartHour, cfg.EndHour, cfg.SlotMinutes)
}
