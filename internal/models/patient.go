package models

// Patient represents a registered patient. DateOfBirth is a pointer so a
// registration without one stores NULL; the DATE column rejects an empty
// string.
type Patient struct {
	BaseModel
	FirstName             string  `gorm:"size:100;not null" json:"firstName"`
	LastName              string  `gorm:"size:100;not null" json:"lastName"`
	Email                 string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone                 string  `gorm:"size:30" json:"phone"`
	DateOfBirth           *string `gorm:"type:date" json:"dateOfBirth"`
	Gender                string  `gorm:"size:10" json:"gender"`
	Address               string  `gorm:"type:text" json:"address"`
	EmergencyContactName  string  `gorm:"size:200" json:"emergencyContactName"`
	EmergencyContactPhone string  `gorm:"size:30" json:"emergencyContactPhone"`
	IsActive              bool    `gorm:"default:true" json:"isActive"`
}

// FullName returns the patient's display name.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
