package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-assistant-server/internal/models"
)

// Scheduling violations, ordered by how they are checked: availability rows
// must exist for the weekday, the requested span must fit a window, and the
// slot must be free of non-cancelled appointments.
var (
	ErrNoAvailability      = errors.New("doctor has no availability on the requested day")
	ErrOutsideAvailability = errors.New("requested time is outside the doctor's availability")
	ErrSlotConflict        = errors.New("slot is already booked for this doctor")
	ErrInvalidWindow       = errors.New("availability window start must be before end")
)

// Request describes a booking or reschedule to validate.
type Request struct {
	DoctorID        string
	Date            string // "2006-01-02"
	Time            string // "15:04"
	DurationMinutes int
	// ExcludeAppointmentID skips one appointment in the conflict check, so a
	// reschedule does not collide with the appointment being moved.
	ExcludeAppointmentID string
}

// Validate decides whether the requested appointment is legal against the
// doctor's availability windows and existing appointments on that date. It is
// a pre-check only: the unique constraint on (doctor, date, time) remains the
// race-safety backstop at insert time.
func Validate(req Request, windows []models.DoctorAvailability, existing []models.Appointment) error {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fmt.Errorf("invalid appointment date %q: %w", req.Date, err)
	}
	start, err := MinutesOfDay(req.Time)
	if err != nil {
		return fmt.Errorf("invalid appointment time %q: %w", req.Time, err)
	}

	dayOfWeek := int(date.Weekday())
	var dayWindows []models.DoctorAvailability
	for _, w := range windows {
		if w.IsActive && w.DayOfWeek == dayOfWeek {
			dayWindows = append(dayWindows, w)
		}
	}
	if len(dayWindows) == 0 {
		return ErrNoAvailability
	}

	duration := EffectiveDuration(req, dayWindows)
	end := start + duration

	inWindow := false
	for _, w := range dayWindows {
		wStart, err := MinutesOfDay(w.StartTime)
		if err != nil {
			continue
		}
		wEnd, err := MinutesOfDay(w.EndTime)
		if err != nil {
			continue
		}
		if start >= wStart && end <= wEnd {
			inWindow = true
			break
		}
	}
	if !inWindow {
		return ErrOutsideAvailability
	}

	for _, appt := range existing {
		if appt.ID == req.ExcludeAppointmentID {
			continue
		}
		if appt.Status == models.StatusCancelled {
			continue
		}
		if appt.AppointmentDate != req.Date {
			continue
		}
		apptStart, err := MinutesOfDay(appt.AppointmentTime)
		if err != nil {
			continue
		}
		apptDuration := appt.DurationMinutes
		if apptDuration <= 0 {
			apptDuration = duration
		}
		if start < apptStart+apptDuration && apptStart < end {
			return ErrSlotConflict
		}
	}

	return nil
}

// EffectiveDuration resolves the booking length: the request's own duration
// when positive, otherwise the slot duration of the doctor's window on the
// requested weekday, otherwise 30.
func EffectiveDuration(req Request, windows []models.DoctorAvailability) int {
	if req.DurationMinutes > 0 {
		return req.DurationMinutes
	}
	if date, err := time.Parse("2006-01-02", req.Date); err == nil {
		day := int(date.Weekday())
		for _, w := range windows {
			if w.IsActive && w.DayOfWeek == day && w.SlotDurationMinutes > 0 {
				return w.SlotDurationMinutes
			}
		}
	}
	return 30
}

// ValidateWindow rejects availability windows whose start is not strictly
// before their end.
func ValidateWindow(startTime, endTime string) error {
	start, err := MinutesOfDay(startTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", startTime, err)
	}
	end, err := MinutesOfDay(endTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", endTime, err)
	}
	if start >= end {
		return ErrInvalidWindow
	}
	return nil
}

// MinutesOfDay parses an "HH:MM" (or "HH:MM:SS") clock string into minutes
// since midnight.
func MinutesOfDay(clock string) (int, error) {
	if strings.Count(clock, ":") == 2 {
		clock = clock[:strings.LastIndex(clock, ":")]
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
