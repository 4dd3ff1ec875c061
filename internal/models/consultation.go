package models

import "time"

const (
	ConsultationPending   = "pending"
	ConsultationReviewing = "reviewing"
	ConsultationApproved  = "approved"
	ConsultationRejected  = "rejected"
	ConsultationCompleted = "completed"
)

var consultationStatuses = map[string]bool{
	ConsultationPending:   true,
	ConsultationReviewing: true,
	ConsultationApproved:  true,
	ConsultationRejected:  true,
	ConsultationCompleted: true,
}

// ValidConsultationStatus reports whether s is one of the consultation states.
// Any state may follow any other; transitions are decided by staff.
func ValidConsultationStatus(s string) bool {
	return consultationStatuses[s]
}

// PatientConsultation is an intake request submitted through the consultation form.
type PatientConsultation struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	UserID             *uint         `gorm:"index" json:"userId"`
	FirstName          string        `gorm:"size:100;not null" json:"firstName"`
	LastName           string        `gorm:"size:100;not null" json:"lastName"`
	Email              string        `gorm:"size:320;not null" json:"email"`
	Phone              string        `gorm:"size:20;not null" json:"phone"`
	MedicalCondition   string        `gorm:"type:text;not null" json:"medicalCondition"`
	TreatmentType      string        `gorm:"size:100" json:"treatmentType,omitempty"`
	PreferredSpecialty string        `gorm:"size:100" json:"preferredSpecialty,omitempty"`
	Status             string        `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes              string        `gorm:"type:text" json:"notes,omitempty"`
	Language           string        `gorm:"size:10;default:'en'" json:"language"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
	Files              []MedicalFile `gorm:"foreignKey:ConsultationID" json:"files,omitempty"`
}

func (PatientConsultation) TableName() string {
	return "patient_consultations"
}

// AcceptsUploads reports whether patients may still attach files.
func (c *PatientConsultation) AcceptsUploads() bool {
	return c.Status == ConsultationPending || c.Status == ConsultationReviewing
}
