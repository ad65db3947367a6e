package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/schedview/schedview/internal/config"
	"github.com/schedview/schedview/internal/domain/directory"
	"github.com/schedview/schedview/internal/domain/schedule"
	"github.com/schedview/schedview/internal/platform/db"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			reset, _ := cmd.Flags().GetBool("reset")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != "postgres" {
				return fmt.Errorf("seed requires STORE_DRIVER=postgres (the memory store seeds itself at startup)")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			// Pin a single connection so the truncate and the inserts run
			// on the same session.
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return fmt.Errorf("failed to acquire connection: %w", err)
			}
			defer conn.Release()
			ctx = db.WithConn(ctx, conn)

			if reset {
				if _, err := conn.Exec(ctx, `TRUNCATE appointments, patients, doctors`); err != nil {
					return fmt.Errorf("reset failed: %w", err)
				}
			}

			dirRepo := directory.NewPGRepository(pool)
			apptRepo := schedule.NewPGRepository(pool)

			doctors, patients, appts := demoDataset(time.Now())
			for i := range doctors {
				if err := dirRepo.CreateDoctor(ctx, &doctors[i]); err != nil {
					return fmt.Errorf("seed doctor %q: %w", doctors[i].Name, err)
				}
			}
			for i := range patients {
				if err := dirRepo.CreatePatient(ctx, &patients[i]); err != nil {
					return fmt.Errorf("seed patient %q: %w", patients[i].Name, err)
				}
			}
			for i := range appts {
				if err := apptRepo.Create(ctx, &appts[i]); err != nil {
					return fmt.Errorf("seed appointment %s: %w", appts[i].ID, err)
				}
			}

			fmt.Printf("Seeded %d doctors, %d patients, %d appointments.\n",
				len(doctors), len(patients), len(appts))
			return nil
		},
	}
	cmd.Flags().Bool("reset", false, "Truncate existing rows before seeding")
	return cmd
}

// demoDataset returns the fixture data the memory store boots with and the
// seed command loads into Postgres. Identifiers are fixed so URLs survive
// restarts and a repeated seed run fails on the primary key instead of
// silently duplicating rows. Appointments are laid out relative to now's day
// so the default timeline view is never empty.
func demoDataset(now time.Time) ([]directory.Doctor, []directory.Patient, []schedule.Appointment) {
	var (
		drChen    = uuid.MustParse("d0000000-0000-4000-a000-000000000001")
		drOkafor  = uuid.MustParse("d0000000-0000-4000-a000-000000000002")
		drAlvarez = uuid.MustParse("d0000000-0000-4000-a000-000000000003")

		ptNakamura = uuid.MustParse("aa000000-0000-4000-a000-000000000001")
		ptSingh    = uuid.MustParse("aa000000-0000-4000-a000-000000000002")
		ptJohnson  = uuid.MustParse("aa000000-0000-4000-a000-000000000003")
		ptDubois   = uuid.MustParse("aa000000-0000-4000-a000-000000000004")
		ptReyes    = uuid.MustParse("aa000000-0000-4000-a000-000000000005")
	)

	day := schedule.StartOfDay(now)
	at := func(dayOffset, hour, min int) time.Time {
		return day.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
	}

	doctors := []directory.Doctor{
		{ID: drChen, Name: "Dr. Sarah Chen", Specialty: "Cardiology", CreatedAt: now, UpdatedAt: now},
		{ID: drOkafor, Name: "Dr. James Okafor", Specialty: "General Practice", CreatedAt: now, UpdatedAt: now},
		{ID: drAlvarez, Name: "Dr. Maria Alvarez", Specialty: "Dermatology", CreatedAt: now, UpdatedAt: now},
	}

	patients := []directory.Patient{
		{ID: ptNakamura, Name: "Kenji Nakamura", BirthDate: datep(1978, time.March, 12), Phone: strp("+1-555-0101"), CreatedAt: now, UpdatedAt: now},
		{ID: ptSingh, Name: "Priya Singh", BirthDate: datep(1991, time.July, 4), Phone: strp("+1-555-0102"), CreatedAt: now, UpdatedAt: now},
		{ID: ptJohnson, Name: "Marcus Johnson", BirthDate: datep(1965, time.November, 28), Phone: strp("+1-555-0103"), CreatedAt: now, UpdatedAt: now},
		{ID: ptDubois, Name: "Claire Dubois", BirthDate: datep(1988, time.February, 17), CreatedAt: now, UpdatedAt: now},
		{ID: ptReyes, Name: "Antonio Reyes", BirthDate: datep(2001, time.September, 9), Phone: strp("+1-555-0105"), CreatedAt: now, UpdatedAt: now},
	}

	appt := func(id string, doctorID, patientID uuid.UUID, category schedule.Category, status schedule.Status, start, end time.Time, note *string) schedule.Appointment {
		return schedule.Appointment{
			ID:        uuid.MustParse(id),
			DoctorID:  doctorID,
			PatientID: patientID,
			Category:  category,
			Status:    status,
			Start:     start,
			End:       end,
			Note:      note,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	appts := []schedule.Appointment{
		// The 9:00 and 9:15 bookings for Dr. Chen overlap on purpose.
		appt("ca000000-0000-4000-a000-000000000001", drChen, ptNakamura, schedule.CategoryCheckup, schedule.StatusScheduled, at(0, 9, 0), at(0, 9, 30), strp("annual physical")),
		appt("ca000000-0000-4000-a000-000000000002", drChen, ptSingh, schedule.CategoryConsultation, schedule.StatusScheduled, at(0, 9, 15), at(0, 10, 0), nil),
		appt("ca000000-0000-4000-a000-000000000003", drChen, ptJohnson, schedule.CategoryFollowUp, schedule.StatusCompleted, at(0, 11, 0), at(0, 11, 30), nil),
		appt("ca000000-0000-4000-a000-000000000004", drChen, ptDubois, schedule.CategoryProcedure, schedule.StatusScheduled, at(0, 14, 0), at(0, 15, 0), strp("stress test")),
		appt("ca000000-0000-4000-a000-000000000005", drOkafor, ptReyes, schedule.CategoryEmergency, schedule.StatusScheduled, at(0, 8, 0), at(0, 8, 45), nil),
		appt("ca000000-0000-4000-a000-000000000006", drOkafor, ptNakamura, schedule.CategoryConsultation, schedule.StatusCancelled, at(0, 13, 0), at(0, 13, 30), nil),
		appt("ca000000-0000-4000-a000-000000000007", drAlvarez, ptJohnson, schedule.CategoryProcedure, schedule.StatusScheduled, at(0, 9, 30), at(0, 10, 30), strp("mole removal")),
		appt("ca000000-0000-4000-a000-000000000008", drAlvarez, ptDubois, schedule.CategoryCheckup, schedule.StatusNoShow, at(0, 16, 0), at(0, 16, 30), nil),
		appt("ca000000-0000-4000-a000-000000000009", drChen, ptReyes, schedule.CategoryConsultation, schedule.StatusScheduled, at(1, 10, 0), at(1, 10, 30), nil),
		appt("ca000000-0000-4000-a000-000000000010", drOkafor, ptJohnson, schedule.CategoryFollowUp, schedule.StatusScheduled, at(1, 9, 0), at(1, 9, 30), nil),
	}

	return doctors, patients, appts
}

func strp(s string) *string { return &s }

func datep(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
