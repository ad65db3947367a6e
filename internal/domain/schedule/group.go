package schedule

import "sort"

// GroupOverlapping partitions appointments into maximal clusters of
// transitively overlapping appointments, for stacking overlapping entries
// side by side in the grid.
//
// The input is sorted by start time internally (on a copy; ties keep input
// order) rather than trusting the caller. A single forward pass keeps the
// running maximum end time of the open cluster: an appointment joins the
// cluster iff its start is strictly before that maximum, and the maximum
// advances to its end when that is later. Comparing against the whole
// cluster's maximum, not the most recent member, keeps nested appointments
// together: {9:00-10:00, 9:15-9:45, 9:50-10:15} is one cluster even though
// 9:50 starts after the 9:45 end of the middle member.
//
// Every input appointment lands in exactly one cluster; clusters come back
// in start order.
func GroupOverlapping(appts []Appointment) [][]Appointment {
	if len(appts) == 0 {
		return [][]Appointment{}
	}

	sorted := make([]Appointment, len(appts))
	copy(sorted, appts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	groups := make([][]Appointment, 0)
	current := []Appointment{sorted[0]}
	maxEnd := sorted[0].End
	for _, a := range sorted[1:] {
		if a.Start.Before(maxEnd) {
			current = append(current, a)
			if a.End.After(maxEnd) {
				maxEnd = a.End
			}
			continue
		}
		groups = append(groups, current)
		current = []Appointment{a}
		maxEnd = a.End
	}
	return append(groups, current)
}
