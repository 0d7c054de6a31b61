package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// IsTerminal reports whether the status ends the appointment lifecycle.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment represents a scheduled medical appointment.
// AppointmentDate is a "2006-01-02" DATE and AppointmentTime an "HH:MM"
// TIME column. The composite unique index forbids double-booking the same
// doctor at the same instant regardless of what the pre-insert validation
// saw.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;not null;uniqueIndex:idx_doctor_slot" json:"doctorId"`
	AppointmentDate string            `gorm:"type:date;not null;uniqueIndex:idx_doctor_slot" json:"appointmentDate"`
	AppointmentTime string            `gorm:"type:time;not null;uniqueIndex:idx_doctor_slot" json:"appointmentTime"`
	DurationMinutes int               `gorm:"default:30" json:"durationMinutes"`
	Status          AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Reason          string            `gorm:"size:255" json:"reason"`
	Notes           string            `gorm:"type:text" json:"notes"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
}
