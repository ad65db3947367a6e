package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schedview/schedview/internal/domain/directory"
)

// Service exposes the read side of the appointment calendar. It never
// writes, never retries and never logs; callers decide how to report
// failures.
type Service struct {
	appts  Repository
	dir    directory.Repository
	window WindowConfig
}

func NewService(appts Repository, dir directory.Repository, window WindowConfig) *Service {
	return &Service{appts: appts, dir: dir, window: window}
}

// Window returns the working-day window the service renders timelines with.
func (s *Service) Window() WindowConfig { return s.window }

// -- Appointments --

func (s *Service) ListAppointments(ctx context.Context) ([]Appointment, error) {
	return s.appts.List(ctx)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return s.appts.ListByDoctor(ctx, doctorID)
}

func (s *Service) ListByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Appointment, error) {
	return s.appts.ListByDoctorAndDay(ctx, doctorID, day)
}

func (s *Service) ListByDoctorAndRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]Appointment, error) {
	return s.appts.ListByDoctorAndRange(ctx, doctorID, start, end)
}

// Search backs the read-only listing endpoint. Both filters are optional:
// no doctor means every doctor, no day means every day.
func (s *Service) Search(ctx context.Context, doctorID *uuid.UUID, day *time.Time) ([]Appointment, error) {
	switch {
	case doctorID != nil && day != nil:
		return s.appts.ListByDoctorAndDay(ctx, *doctorID, *day)
	case doctorID != nil:
		return s.appts.ListByDoctor(ctx, *doctorID)
	case day != nil:
		all, err := s.appts.List(ctx)
		if err != nil {
			return nil, err
		}
		matched := make([]Appointment, 0)
		for _, a := range all {
			if SameCalendarDay(a.Start, *day) {
				matched = append(matched, a)
			}
		}
		return matched, nil
	default:
		return s.appts.List(ctx)
	}
}

// -- References --

func (s *Service) ResolveDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error) {
	return s.dir.GetDoctor(ctx, id)
}

func (s *Service) ResolvePatient(ctx context.Context, id uuid.UUID) (*directory.Patient, error) {
	return s.dir.GetPatient(ctx, id)
}

// Enrich resolves both references of an appointment and attaches the
// category colour. An appointment whose doctor or patient no longer
// resolves yields ErrUnresolvedReference.
func (s *Service) Enrich(ctx context.Context, a Appointment) (*AppointmentDetail, error) {
	doc, err := s.dir.GetDoctor(ctx, a.DoctorID)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, fmt.Errorf("doctor %s: %w", a.DoctorID, ErrUnresolvedReference)
	}
	if err != nil {
		return nil, err
	}
	pat, err := s.dir.GetPatient(ctx, a.PatientID)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, fmt.Errorf("patient %s: %w", a.PatientID, ErrUnresolvedReference)
	}
	if err != nil {
		return nil, err
	}
	return &AppointmentDetail{
		Appointment: a,
		Doctor:      *doc,
		Patient:     *pat,
		Color:       a.Category.Color(),
	}, nil
}

// -- Timelines --

// DayTimeline renders one doctor's calendar day. Appointments whose patient
// reference no longer resolves are left out of the view; an unknown doctor
// is directory.ErrNotFound.
func (s *Service) DayTimeline(ctx context.Context, doctorID uuid.UUID, day time.Time) (*DayView, error) {
	doc, err := s.dir.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	appts, err := s.appts.ListByDoctorAndDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	details, err := s.resolveDetails(ctx, appts)
	if err != nil {
		return nil, err
	}
	return buildDayView(*doc, day, details, s.window)
}

// RangeTimeline renders one DayView per day of [start, end), compared at
// day granularity. A seven-day week is end = start.AddDate(0, 0, 7).
func (s *Service) RangeTimeline(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*RangeView, error) {
	doc, err := s.dir.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	appts, err := s.appts.ListByDoctorAndRange(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}
	details, err := s.resolveDetails(ctx, appts)
	if err != nil {
		return nil, err
	}

	from, to := StartOfDay(start), StartOfDay(end)
	view := &RangeView{Doctor: *doc, Start: from, End: to, Days: make([]DayView, 0)}
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		dv, err := buildDayView(*doc, day, detailsOnDay(details, day), s.window)
		if err != nil {
			return nil, err
		}
		view.Days = append(view.Days, *dv)
	}
	return view, nil
}

// resolveDetails enriches a batch, dropping appointments with dangling
// references. Absence is not an error here; anything else aborts.
func (s *Service) resolveDetails(ctx context.Context, appts []Appointment) ([]AppointmentDetail, error) {
	details := make([]AppointmentDetail, 0, len(appts))
	for _, a := range appts {
		d, err := s.Enrich(ctx, a)
		if errors.Is(err, ErrUnresolvedReference) {
			continue
		}
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}
