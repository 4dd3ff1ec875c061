package dto

import "time"

// CreateMedicalFileRequest records a file that was stored out-of-band.
type CreateMedicalFileRequest struct {
	ConsultationID uint   `json:"consultationId" validate:"required"`
	FileName       string `json:"fileName" validate:"required,max=255"`
	FileKey        string `json:"fileKey" validate:"required,max=512"`
	FileURL        string `json:"fileUrl" validate:"omitempty,url"`
	FileSize       int64  `json:"fileSize" validate:"gte=0"`
	MimeType       string `json:"mimeType" validate:"omitempty,max=128"`
	FileType       string `json:"fileType" validate:"omitempty,oneof=report image test_result other"`
}

type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
