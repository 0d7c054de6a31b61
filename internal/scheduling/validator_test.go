package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-assistant-server/internal/models"
)

// 2026-09-07 is a Monday.
const monday = "2026-09-07"

func mondayWindow() []models.DoctorAvailability {
	return []models.DoctorAvailability{
		{
			DoctorID:            "doc-1",
			DayOfWeek:           1,
			StartTime:           "09:00",
			EndTime:             "17:00",
			SlotDurationMinutes: 30,
			MaxPatientsPerSlot:  1,
			IsActive:            true,
		},
	}
}

func TestValidateBookingWithinWindow(t *testing.T) {
	err := Validate(Request{
		DoctorID:        "doc-1",
		Date:            monday,
		Time:            "09:30",
		DurationMinutes: 30,
	}, mondayWindow(), nil)
	require.NoError(t, err)
}

func TestValidateNoAvailability(t *testing.T) {
	// Sunday has no windows registered.
	err := Validate(Request{
		DoctorID:        "doc-1",
		Date:            "2026-09-06",
		Time:            "09:30",
		DurationMinutes: 30,
	}, mondayWindow(), nil)
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestValidateOutsideAvailability(t *testing.T) {
	err := Validate(Request{
		DoctorID:        "doc-1",
		Date:            monday,
		Time:            "18:00",
		DurationMinutes: 30,
	}, mondayWindow(), nil)
	assert.ErrorIs(t, err, ErrOutsideAvailability)

	// A span that starts inside the window but runs past its end is also out.
	err = Validate(Request{
		DoctorID:        "doc-1",
		Date:            monday,
		Time:            "16:45",
		DurationMinutes: 30,
	}, mondayWindow(), nil)
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestValidateSlotConflict(t *testing.T) {
	existing := []models.Appointment{
		{
			BaseModel:       models.BaseModel{ID: "appt-1"},
			DoctorID:        "doc-1",
			AppointmentDate: monday,
			AppointmentTime: "09:30",
			DurationMinutes: 30,
			Status:          models.StatusScheduled,
		},
	}

	err := Validate(Request{
		DoctorID:        "doc-1",
		Date:            monday,
		Time:            "09:30",
		DurationMinutes: 30,
	}, mondayWindow(), existing)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Partial overlap conflicts too.
	err = Validate(Request{
		DoctorID:        "doc-1",
		Date:            monday,
		Time:            "09:45",
		DurationMinutes: 30,
	}, mondayWindow(), existing)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// The next full slot is free.
	err = Validate(Request{
		DoctorID:        "doc-1",
		Date:            monday,
		Time:            "10:00",
		DurationMinutes: 30,
	}, mondayWindow(), existing)
	assert.NoError(t, err)
}

func TestValidateCancelledAppointmentFreesSlot(t *testing.T) {
	existing := []models.Appointment{
		{
			BaseModel:       models.BaseModel{ID: "appt-1"},
			DoctorID:        "doc-1",
			AppointmentDate: monday,
			AppointmentTime: "09:30",
			DurationMinutes: 30,
			Status:          models.StatusCancelled,
		},
	}
	err := Validate(Request{
		DoctorID:        "doc-1",
		Date:            monday,
		Time:            "09:30",
		DurationMinutes: 30,
	}, mondayWindow(), existing)
	assert.NoError(t, err)
}

func TestValidateExcludesRescheduledAppointment(t *testing.T) {
	existing := []models.Appointment{
		{
			BaseModel:       models.BaseModel{ID: "appt-1"},
			DoctorID:        "doc-1",
			AppointmentDate: monday,
			AppointmentTime: "09:30",
			DurationMinutes: 30,
			Status:          models.StatusScheduled,
		},
	}

	// Moving appt-1 within its own slot does not conflict with itself.
	err := Validate(Request{
		DoctorID:             "doc-1",
		Date:                 monday,
		Time:                 "09:30",
		DurationMinutes:      30,
		ExcludeAppointmentID: "appt-1",
	}, mondayWindow(), existing)
	assert.NoError(t, err)
}

func TestEffectiveDuration(t *testing.T) {
	windows := mondayWindow()
	windows[0].SlotDurationMinutes = 20

	// An explicit duration wins.
	d := EffectiveDuration(Request{DoctorID: "doc-1", Date: monday, Time: "09:00", DurationMinutes: 45}, windows)
	assert.Equal(t, 45, d)

	// Otherwise the day's window supplies the slot granularity.
	d = EffectiveDuration(Request{DoctorID: "doc-1", Date: monday, Time: "09:00"}, windows)
	assert.Equal(t, 20, d)

	// No window on the day falls back to 30.
	d = EffectiveDuration(Request{DoctorID: "doc-1", Date: "2026-09-06", Time: "09:00"}, windows)
	assert.Equal(t, 30, d)
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow("09:00", "17:00"))
	assert.ErrorIs(t, ValidateWindow("17:00", "09:00"), ErrInvalidWindow)
	assert.ErrorIs(t, ValidateWindow("09:00", "09:00"), ErrInvalidWindow)
	assert.Error(t, ValidateWindow("not-a-time", "17:00"))
}

func TestMinutesOfDay(t *testing.T) {
	m, err := MinutesOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, m)

	// TIME columns come back with seconds.
	m, err = MinutesOfDay("14:05:00")
	require.NoError(t, err)
	assert.Equal(t, 14*60+5, m)

	_, err = MinutesOfDay("25:99")
	assert.Error(t, err)
}
