package models

import "time"

// MedicalFile holds metadata for a document attached to a consultation.
// The bytes live in object storage under FileKey.
type MedicalFile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConsultationID uint      `gorm:"not null;index" json:"consultationId"`
	FileName       string    `gorm:"size:255;not null" json:"fileName"`
	FileKey        string    `gorm:"size:500;not null" json:"fileKey"`
	FileURL        string    `gorm:"type:text;not null" json:"fileUrl"`
	FileSize       int64     `json:"fileSize"`
	MimeType       string    `gorm:"size:100" json:"mimeType,omitempty"`
	FileType       string    `gorm:"size:50" json:"fileType,omitempty"`
	UploadedAt     time.Time `gorm:"not null" json:"uploadedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (MedicalFile) TableName() string {
	return "medical_files"
}
