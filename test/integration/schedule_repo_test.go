package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/schedview/schedview/internal/domain/schedule"
)

func TestAppointmentRepo(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	doc := createTestDoctor(t, ctx, "Dr. Lena Hoff", "Cardiology")
	other := createTestDoctor(t, ctx, "Dr. Omar Haddad", "Dermatology")
	pat := createTestPatient(t, ctx, "Iris Lindqvist")

	// Local times: scanned timestamptz values come back in the process zone,
	// and day filtering is calendar-day equality in that zone.
	day := time.Date(2024, time.October, 14, 0, 0, 0, 0, time.Local)
	at := func(dayOffset, hour, min int) time.Time {
		return day.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
	}

	a1 := createTestAppointment(t, ctx, doc.ID, pat.ID, schedule.CategoryCheckup, at(0, 9, 0), at(0, 9, 30))
	a2 := createTestAppointment(t, ctx, doc.ID, pat.ID, schedule.CategoryConsultation, at(0, 14, 0), at(0, 15, 0))
	a3 := createTestAppointment(t, ctx, doc.ID, pat.ID, schedule.CategoryFollowUp, at(1, 10, 0), at(1, 10, 30))
	createTestAppointment(t, ctx, other.ID, pat.ID, schedule.CategoryCheckup, at(0, 9, 0), at(0, 9, 30))

	repo := schedule.NewPGRepository(globalDB.Pool)

	t.Run("Create_AssignsID", func(t *testing.T) {
		if a1.ID == uuid.Nil {
			t.Fatal("expected a generated appointment ID")
		}
	})

	t.Run("Create_UnknownDoctorViolatesFK", func(t *testing.T) {
		a := &schedule.Appointment{
			DoctorID:  uuid.New(),
			PatientID: pat.ID,
			Category:  schedule.CategoryCheckup,
			Status:    schedule.StatusScheduled,
			Start:     at(0, 8, 0),
			End:       at(0, 8, 30),
		}
		if err := repo.Create(ctx, a); err == nil {
			t.Fatal("expected foreign key violation for unknown doctor")
		}
	})

	t.Run("List_OrderedByStart", func(t *testing.T) {
		all, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 appointments, got %d", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i].Start.Before(all[i-1].Start) {
				t.Errorf("appointments out of order at %d: %s before %s", i, all[i].Start, all[i-1].Start)
			}
		}
	})

	t.Run("List_RoundTripsFields", func(t *testing.T) {
		all, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var got *schedule.Appointment
		for i := range all {
			if all[i].ID == a2.ID {
				got = &all[i]
			}
		}
		if got == nil {
			t.Fatalf("appointment %s not returned", a2.ID)
		}
		if got.Category != schedule.CategoryConsultation {
			t.Errorf("expected category consultation, got %q", got.Category)
		}
		if got.Status != schedule.StatusScheduled {
			t.Errorf("expected status scheduled, got %q", got.Status)
		}
		if !got.Start.Equal(a2.Start) || !got.End.Equal(a2.End) {
			t.Errorf("times changed in round trip: %s-%s vs %s-%s", got.Start, got.End, a2.Start, a2.End)
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected created_at to be set by the database")
		}
	})

	t.Run("ListByDoctor", func(t *testing.T) {
		got, err := repo.ListByDoctor(ctx, doc.ID)
		if err != nil {
			t.Fatalf("ListByDoctor: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 appointments for %s, got %d", doc.Name, len(got))
		}
		for _, a := range got {
			if a.DoctorID != doc.ID {
				t.Errorf("appointment %s belongs to %s", a.ID, a.DoctorID)
			}
		}
	})

	t.Run("ListByDoctor_UnknownDoctorIsEmpty", func(t *testing.T) {
		got, err := repo.ListByDoctor(ctx, uuid.New())
		if err != nil {
			t.Fatalf("ListByDoctor: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no appointments, got %d", len(got))
		}
	})

	t.Run("ListByDoctorAndDay", func(t *testing.T) {
		got, err := repo.ListByDoctorAndDay(ctx, doc.ID, day)
		if err != nil {
			t.Fatalf("ListByDoctorAndDay: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 appointments on %s, got %d", day.Format("2006-01-02"), len(got))
		}
		for _, a := range got {
			if a.ID == a3.ID {
				t.Error("next-day appointment leaked into the day view")
			}
		}
	})

	t.Run("ListByDoctorAndDay_TimeOfDayIgnored", func(t *testing.T) {
		late := day.Add(23*time.Hour + 59*time.Minute)
		got, err := repo.ListByDoctorAndDay(ctx, doc.ID, late)
		if err != nil {
			t.Fatalf("ListByDoctorAndDay: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected the same 2 appointments for a late-day probe, got %d", len(got))
		}
	})

	t.Run("ListByDoctorAndRange_HalfOpen", func(t *testing.T) {
		got, err := repo.ListByDoctorAndRange(ctx, doc.ID, day, day.AddDate(0, 0, 1))
		if err != nil {
			t.Fatalf("ListByDoctorAndRange: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected the one-day range to exclude the end day, got %d appointments", len(got))
		}

		got, err = repo.ListByDoctorAndRange(ctx, doc.ID, day, day.AddDate(0, 0, 2))
		if err != nil {
			t.Fatalf("ListByDoctorAndRange: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected the two-day range to include the next day, got %d appointments", len(got))
		}
	})
}
