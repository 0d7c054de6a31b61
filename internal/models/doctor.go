package models

// Specialization represents a medical specialty that doctors can belong to.
type Specialization struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Doctor represents a practicing doctor available for appointments.
type Doctor struct {
	BaseModel
	FirstName        string  `gorm:"size:100;not null" json:"firstName"`
	LastName         string  `gorm:"size:100;not null" json:"lastName"`
	Email            string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone            string  `gorm:"size:30" json:"phone"`
	SpecializationID *string `gorm:"size:36;index" json:"specializationId"`
	LicenseNumber    string  `gorm:"size:50" json:"licenseNumber"`
	ExperienceYears  int     `json:"experienceYears"`
	ConsultationFee  float64 `json:"consultationFee"`
	IsActive         bool    `gorm:"default:true" json:"isActive"`

	// Relations
	Specialization *Specialization `gorm:"foreignKey:SpecializationID" json:"specialization,omitempty"`
}

// FullName returns the doctor's display name.
func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
