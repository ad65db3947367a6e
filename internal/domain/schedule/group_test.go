package schedule

import (
	"testing"

	"github.com/google/uuid"
)

func TestGroupOverlapping_NestedChainStaysOneGroup(t *testing.T) {
	doc := uuid.New()
	// The third appointment starts after the second ends, but the first
	// still covers it: one cluster, held together by the running maximum.
	a := apptBetween(doc, at(9, 0), at(10, 0))
	b := apptBetween(doc, at(9, 15), at(9, 45))
	c := apptBetween(doc, at(9, 50), at(10, 15))

	groups := GroupOverlapping([]Appointment{a, b, c})

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(groups[0]) != 3 {
		t.Fatalf("group has %d appointments, want 3", len(groups[0]))
	}
	if groups[0][0].ID != a.ID || groups[0][1].ID != b.ID || groups[0][2].ID != c.ID {
		t.Error("group members must be ordered by start time")
	}
}

func TestGroupOverlapping_DisjointAppointmentsSeparateGroups(t *testing.T) {
	doc := uuid.New()
	a := apptBetween(doc, at(9, 0), at(9, 30))
	b := apptBetween(doc, at(10, 0), at(10, 30))
	c := apptBetween(doc, at(11, 0), at(11, 45))

	groups := GroupOverlapping([]Appointment{a, b, c})

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	for i, g := range groups {
		if len(g) != 1 {
			t.Errorf("group %d has %d appointments, want 1", i, len(g))
		}
	}
}

func TestGroupOverlapping_TouchingBoundariesDoNotChain(t *testing.T) {
	doc := uuid.New()
	// Back-to-back appointments share an instant but do not overlap:
	// the join test is strict.
	a := apptBetween(doc, at(9, 0), at(9, 30))
	b := apptBetween(doc, at(9, 30), at(10, 0))

	groups := GroupOverlapping([]Appointment{a, b})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
}

func TestGroupOverlapping_SortsUnorderedInput(t *testing.T) {
	doc := uuid.New()
	a := apptBetween(doc, at(9, 0), at(10, 0))
	b := apptBetween(doc, at(9, 15), at(9, 45))
	c := apptBetween(doc, at(9, 50), at(10, 15))
	d := apptBetween(doc, at(13, 0), at(13, 30))

	groups := GroupOverlapping([]Appointment{d, c, a, b})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups[0]) != 3 {
		t.Errorf("first group has %d appointments, want 3", len(groups[0]))
	}
	if groups[1][0].ID != d.ID {
		t.Error("the lone afternoon appointment must form the trailing group")
	}
}

func TestGroupOverlapping_EveryAppointmentExactlyOnce(t *testing.T) {
	doc := uuid.New()
	in := []Appointment{
		apptBetween(doc, at(8, 0), at(8, 45)),
		apptBetween(doc, at(8, 30), at(9, 0)),
		apptBetween(doc, at(9, 15), at(9, 45)),
		apptBetween(doc, at(9, 30), at(10, 30)),
		apptBetween(doc, at(12, 0), at(12, 30)),
	}

	groups := GroupOverlapping(in)

	seen := make(map[uuid.UUID]int)
	for _, g := range groups {
		for _, a := range g {
			seen[a.ID]++
		}
	}
	if len(seen) != len(in) {
		t.Errorf("%d distinct appointments in output, want %d", len(seen), len(in))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("appointment %s appears %d times, want 1", id, n)
		}
	}
}

func TestGroupOverlapping_DoesNotMutateInput(t *testing.T) {
	doc := uuid.New()
	a := apptBetween(doc, at(11, 0), at(11, 30))
	b := apptBetween(doc, at(9, 0), at(9, 30))
	in := []Appointment{a, b}

	GroupOverlapping(in)

	if in[0].ID != a.ID || in[1].ID != b.ID {
		t.Error("caller's slice order must be untouched")
	}
}

func TestGroupOverlapping_Empty(t *testing.T) {
	groups := GroupOverlapping(nil)
	if len(groups) != 0 {
		t.Errorf("got %d groups, want 0", len(groups))
	}
}

func TestGroupOverlapping_IdenticalStartsShareGroup(t *testing.T) {
	doc := uuid.New()
	a := apptBetween(doc, at(9, 0), at(9, 30))
	b := apptBetween(doc, at(9, 0), at(10, 0))

	groups := GroupOverlapping([]Appointment{a, b})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(groups[0]) != 2 {
		t.Errorf("group has %d appointments, want 2", len(groups[0]))
	}
}

func TestGroupOverlapping_GroupsOrderedByStart(t *testing.T) {
	doc := uuid.New()
	afternoon := apptBetween(doc, at(15, 0), at(15, 30))
	morning := apptBetween(doc, at(9, 0), at(9, 30))

	groups := GroupOverlapping([]Appointment{afternoon, morning})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !groups[0][0].Start.Before(groups[1][0].Start) {
		t.Error("groups must be emitted in start-time order")
	}
}

// A zero-length appointment inside another's span still joins its cluster.
func TestGroupOverlapping_ZeroDurationInsideSpan(t *testing.T) {
	doc := uuid.New()
	span := apptBetween(doc, at(9, 0), at(10, 0))
	instant := Appointment{
		ID:       uuid.New(),
		DoctorID: doc,
		Start:    at(9, 30),
		End:      at(9, 30),
	}

	groups := GroupOverlapping([]Appointment{span, instant})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
}
