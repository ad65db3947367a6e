package schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/schedview/schedview/internal/domain/directory"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.ListAppointments)
	api.GET("/slots", h.ListSlots)
	api.GET("/doctors/:id/timeline", h.Timeline)
}

// ListAppointments returns the flat appointment list. Both query filters
// are optional: doctor_id narrows to one doctor, date (YYYY-MM-DD) to one
// calendar day. No paging, no range filter; the timeline endpoints cover
// multi-day views.
func (h *Handler) ListAppointments(c echo.Context) error {
	var doctorID *uuid.UUID
	if v := c.QueryParam("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		doctorID = &id
	}

	var day *time.Time
	if v := c.QueryParam("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		day = &d
	}

	items, err := h.svc.Search(c.Request().Context(), doctorID, day)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// ListSlots returns the working-day slot grid for a date, today when none
// is given. The grid is the same for every doctor.
func (h *Handler) ListSlots(c echo.Context) error {
	day := time.Now()
	if v := c.QueryParam("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		day = d
	}

	slots, err := SlotsFor(day, h.svc.Window())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

// Timeline renders a doctor's calendar. With start and end (YYYY-MM-DD,
// half-open) it returns one day view per day of the range; otherwise it
// returns the single day named by date, defaulting to today.
func (h *Handler) Timeline(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	startStr, endStr := c.QueryParam("start"), c.QueryParam("end")
	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "start and end must be given together")
		}
		start, err := time.Parse(dateLayout, startStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start, want YYYY-MM-DD")
		}
		end, err := time.Parse(dateLayout, endStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end, want YYYY-MM-DD")
		}
		if end.Before(start) {
			return echo.NewHTTPError(http.StatusBadRequest, "end is before start")
		}
		view, err := h.svc.RangeTimeline(ctx, id, start, end)
		if errors.Is(err, directory.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, view)
	}

	day := time.Now()
	if v := c.QueryParam("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		day = d
	}
	view, err := h.svc.DayTimeline(ctx, id, day)
	if errors.Is(err, directory.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}
