package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/i18n"
	"github.com/vitacross/vitacross-api/internal/mailer"
	"github.com/vitacross/vitacross-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrInvalidStatus        = errors.New("invalid consultation status")
	ErrForbidden            = errors.New("access denied")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ConsultationService struct {
	db         *gorm.DB
	mail       mailer.Mailer
	staffEmail string
}

func NewConsultationService(db *gorm.DB, mail mailer.Mailer, staffEmail string) *ConsultationService {
	return &ConsultationService{db: db, mail: mail, staffEmail: staffEmail}
}

// Create stores a consultation request. The patient gets an acknowledgement
// and staff a notification; mail failures are logged only.
func (s *ConsultationService) Create(ctx context.Context, req *dto.CreateConsultationRequest, userID *uint, lang string) (*models.PatientConsultation, error) {
	if _, ok := i18n.Normalize(lang); !ok {
		lang = i18n.English
	}

	consultation := models.PatientConsultation{
		UserID:             userID,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              normalizeEmail(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		MedicalCondition:   strings.TrimSpace(req.MedicalCondition),
		TreatmentType:      strings.TrimSpace(req.TreatmentType),
		PreferredSpecialty: strings.TrimSpace(req.PreferredSpecialty),
		Status:             models.ConsultationPending,
		Language:           lang,
	}

	if err := s.db.Create(&consultation).Error; err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	s.notify(ctx, &consultation)
	return &consultation, nil
}

func (s *ConsultationService) notify(ctx context.Context, c *models.PatientConsultation) {
	p := i18n.Printer(c.Language)
	ack := mailer.Message{
		To:      []string{c.Email},
		Subject: p.Sprintf(i18n.MsgConsultAckSubject),
		Body:    p.Sprintf(i18n.MsgConsultAckBody, c.FirstName, c.ID),
	}
	if err := s.mail.Send(ctx, ack); err != nil {
		slog.Error("failed to send consultation acknowledgement", "consultation_id", c.ID, "error", err)
	}

	if s.staffEmail == "" {
		return
	}
	staff := i18n.Printer(i18n.English)
	notice := mailer.Message{
		To:      []string{s.staffEmail},
		Subject: staff.Sprintf(i18n.MsgConsultStaffSubject, c.ID),
		Body: staff.Sprintf(i18n.MsgConsultStaffBody,
			c.FirstName, c.LastName, c.Email, c.Phone, c.TreatmentType, c.PreferredSpecialty, c.MedicalCondition),
	}
	if err := s.mail.Send(ctx, notice); err != nil {
		slog.Error("failed to send staff notification", "consultation_id", c.ID, "error", err)
	}
}

func (s *ConsultationService) Get(id uint) (*models.PatientConsultation, error) {
	var c models.PatientConsultation
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, fmt.Errorf("failed to load consultation: %w", err)
	}
	return &c, nil
}

// GetForViewer returns the consultation when the viewer owns it or is staff.
func (s *ConsultationService) GetForViewer(id, viewerID uint, isAdmin bool) (*models.PatientConsultation, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && (c.UserID == nil || *c.UserID != viewerID) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *ConsultationService) ListForUser(userID uint) ([]models.PatientConsultation, error) {
	var list []models.PatientConsultation
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return list, nil
}

func (s *ConsultationService) List(status string, limit, offset int) (*dto.ConsultationListResponse, error) {
	limit, offset = clampPage(limit, offset)

	q := s.db.Model(&models.PatientConsultation{})
	if status != "" {
		if !models.ValidConsultationStatus(status) {
			return nil, ErrInvalidStatus
		}
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count consultations: %w", err)
	}

	list := []models.PatientConsultation{}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}

	return &dto.ConsultationListResponse{Data: list, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ConsultationService) Update(id uint, req *dto.UpdateConsultationRequest) (*models.PatientConsultation, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !models.ValidConsultationStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.TreatmentType != nil {
		updates["treatment_type"] = *req.TreatmentType
	}
	if req.PreferredSpecialty != nil {
		updates["preferred_specialty"] = *req.PreferredSpecialty
	}

	if len(updates) > 0 {
		if err := s.db.Model(c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update consultation: %w", err)
		}
	}
	return s.Get(id)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
