package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidFileCategory = errors.New("fileType must be one of: report, image, test_result, other")
	ErrConsultationClosed  = errors.New("consultation no longer accepts files")
	ErrStorageUnavailable  = errors.New("file storage is not configured")
	ErrInvalidFileKey      = errors.New("fileKey must name an object under the consultation's folder")
)

const downloadURLTTL = 15 * time.Minute

var allowedMimeTypes = map[string]bool{
	"application/pdf":              true,
	"image/jpeg":                   true,
	"image/png":                    true,
	"image/webp":                   true,
	"application/dicom":            true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// extension fallbacks for browsers that send application/octet-stream
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".dcm":  "application/dicom",
	".zip":  "application/zip",
}

var fileCategories = map[string]bool{
	"report":      true,
	"image":       true,
	"test_result": true,
	"other":       true,
}

type MedicalFileService struct {
	db       *gorm.DB
	store    storage.Store
	maxBytes int64
	now      func() time.Time
}

func NewMedicalFileService(db *gorm.DB, store storage.Store, maxBytes int64) *MedicalFileService {
	return &MedicalFileService{db: db, store: store, maxBytes: maxBytes, now: time.Now}
}

// Upload stores a file for a consultation that is still open and records its
// metadata.
func (s *MedicalFileService) Upload(ctx context.Context, consultationID uint, fh *multipart.FileHeader, fileType string) (*models.MedicalFile, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	consultation, err := s.loadConsultation(consultationID)
	if err != nil {
		return nil, err
	}
	if !consultation.AcceptsUploads() {
		return nil, ErrConsultationClosed
	}

	if fileType == "" {
		fileType = "other"
	}
	if !fileCategories[fileType] {
		return nil, ErrInvalidFileCategory
	}
	if fh.Size <= 0 || fh.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimeType := detectMimeType(fh.Header.Get("Content-Type"), ext)
	if !allowedMimeTypes[mimeType] {
		return nil, ErrUnsupportedFileType
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate file key: %w", err)
	}
	key := fmt.Sprintf("consultations/%d/%s%s", consultationID, id, ext)

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	if err := s.store.Put(ctx, key, f, fh.Size, mimeType); err != nil {
		return nil, err
	}

	record := models.MedicalFile{
		ConsultationID: consultationID,
		FileName:       filepath.Base(fh.Filename),
		FileKey:        key,
		FileURL:        key,
		FileSize:       fh.Size,
		MimeType:       mimeType,
		FileType:       fileType,
		UploadedAt:     s.now(),
	}
	if err := s.create(&record); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			slog.Error("failed to remove orphaned object", "key", key, "error", delErr)
		}
		return nil, err
	}
	return &record, nil
}

// CreateMetadata records a file that was put into storage by another channel.
func (s *MedicalFileService) CreateMetadata(req *dto.CreateMedicalFileRequest) (*models.MedicalFile, error) {
	consultation, err := s.loadConsultation(req.ConsultationID)
	if err != nil {
		return nil, err
	}
	if !consultation.AcceptsUploads() {
		return nil, ErrConsultationClosed
	}

	// keys live under the consultation's own prefix
	prefix := fmt.Sprintf("consultations/%d/", req.ConsultationID)
	if !strings.HasPrefix(req.FileKey, prefix) || path.Clean(req.FileKey) != req.FileKey || len(req.FileKey) == len(prefix) {
		return nil, ErrInvalidFileKey
	}

	fileType := req.FileType
	if fileType == "" {
		fileType = "other"
	}
	if !fileCategories[fileType] {
		return nil, ErrInvalidFileCategory
	}
	if req.FileSize > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(req.FileKey))
	mimeType := detectMimeType(req.MimeType, ext)
	if !allowedMimeTypes[mimeType] {
		return nil, ErrUnsupportedFileType
	}

	record := models.MedicalFile{
		ConsultationID: req.ConsultationID,
		FileName:       filepath.Base(req.FileName),
		FileKey:        req.FileKey,
		FileURL:        req.FileKey,
		FileSize:       req.FileSize,
		MimeType:       mimeType,
		FileType:       fileType,
		UploadedAt:     s.now(),
	}
	if err := s.create(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *MedicalFileService) create(record *models.MedicalFile) error {
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to save file metadata: %w", err)
	}
	// files are served through presigned links, never directly
	record.FileURL = fmt.Sprintf("/api/medical-files/%d/download", record.ID)
	if err := s.db.Model(record).Update("file_url", record.FileURL).Error; err != nil {
		return fmt.Errorf("failed to save file metadata: %w", err)
	}
	return nil
}

func (s *MedicalFileService) ListByConsultation(consultationID uint) ([]models.MedicalFile, error) {
	files := []models.MedicalFile{}
	err := s.db.Where("consultation_id = ?", consultationID).
		Order("uploaded_at DESC").Order("id DESC").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func (s *MedicalFileService) Get(id uint) (*models.MedicalFile, error) {
	var f models.MedicalFile
	if err := s.db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return &f, nil
}

// DownloadURL returns a short-lived link to the file for its owner or staff.
func (s *MedicalFileService) DownloadURL(ctx context.Context, id, viewerID uint, isAdmin bool) (*dto.DownloadURLResponse, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	f, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		consultation, err := s.loadConsultation(f.ConsultationID)
		if err != nil {
			return nil, err
		}
		if consultation.UserID == nil || *consultation.UserID != viewerID {
			return nil, ErrForbidden
		}
	}

	url, err := s.store.PresignGet(ctx, f.FileKey, f.FileName, downloadURLTTL)
	if err != nil {
		return nil, err
	}
	return &dto.DownloadURLResponse{URL: url, ExpiresAt: s.now().Add(downloadURLTTL)}, nil
}

// Delete removes the stored object, then the metadata row.
func (s *MedicalFileService) Delete(ctx context.Context, id uint) error {
	f, err := s.Get(id)
	if err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, f.FileKey); err != nil {
			return err
		}
	}
	if err := s.db.Delete(f).Error; err != nil {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}
	return nil
}

func (s *MedicalFileService) loadConsultation(id uint) (*models.PatientConsultation, error) {
	var c models.PatientConsultation
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, fmt.Errorf("failed to load consultation: %w", err)
	}
	return &c, nil
}

func detectMimeType(header, ext string) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	if mt, ok := mimeByExtension[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}
