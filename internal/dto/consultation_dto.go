package dto

import "github.com/vitacross/vitacross-api/internal/models"

type CreateConsultationRequest struct {
	FirstName          string `json:"firstName" validate:"required,max=100"`
	LastName           string `json:"lastName" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email,max=320"`
	Phone              string `json:"phone" validate:"required,max=20"`
	MedicalCondition   string `json:"medicalCondition" validate:"required,max=5000"`
	TreatmentType      string `json:"treatmentType" validate:"omitempty,max=100"`
	PreferredSpecialty string `json:"preferredSpecialty" validate:"omitempty,max=100"`
}

type UpdateConsultationRequest struct {
	Status             *string `json:"status"`
	Notes              *string `json:"notes" validate:"omitempty,max=5000"`
	TreatmentType      *string `json:"treatmentType" validate:"omitempty,max=100"`
	PreferredSpecialty *string `json:"preferredSpecialty" validate:"omitempty,max=100"`
}

type ConsultationListResponse struct {
	Data   []models.PatientConsultation `json:"data"`
	Total  int64                        `json:"total"`
	Limit  int                          `json:"limit"`
	Offset int                          `json:"offset"`
}
