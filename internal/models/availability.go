package models

// DoctorAvailability is a recurring weekly window during which a doctor
// accepts appointments. DayOfWeek uses the time.Weekday encoding
// (0=Sunday .. 6=Saturday). StartTime and EndTime are "HH:MM" strings
// backed by TIME columns, with start strictly before end.
type DoctorAvailability struct {
	BaseModel
	DoctorID            string `gorm:"size:36;index;not null" json:"doctorId"`
	DayOfWeek           int    `gorm:"not null" json:"dayOfWeek"`
	StartTime           string `gorm:"type:time;not null" json:"startTime"`
	EndTime             string `gorm:"type:time;not null" json:"endTime"`
	SlotDurationMinutes int    `gorm:"default:30" json:"slotDurationMinutes"`
	MaxPatientsPerSlot  int    `gorm:"default:1" json:"maxPatientsPerSlot"`
	IsActive            bool   `gorm:"default:true" json:"isActive"`

	// Relations
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}
