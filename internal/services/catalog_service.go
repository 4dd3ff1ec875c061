package services

import (
	"errors"
	"fmt"

	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/models"
	"gorm.io/gorm"
)

var ErrServiceNotFound = errors.New("service not found")

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListActive returns the services shown on the public site, cheapest first.
func (s *CatalogService) ListActive() ([]models.Service, error) {
	list := []models.Service{}
	if err := s.db.Where("active = ?", true).Order("price ASC").Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return list, nil
}

func (s *CatalogService) Get(id uint) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	return &svc, nil
}

func (s *CatalogService) Create(req *dto.ServiceRequest) (*models.Service, error) {
	svc := models.Service{
		Name:          req.Name,
		NameZh:        req.NameZh,
		Price:         req.Price,
		Duration:      req.Duration,
		Description:   req.Description,
		DescriptionZh: req.DescriptionZh,
		Active:        true,
	}
	if err := s.db.Create(&svc).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	// the column default swallows a false on insert
	if req.Active != nil && !*req.Active {
		if err := s.db.Model(&svc).Update("active", false).Error; err != nil {
			return nil, fmt.Errorf("failed to create service: %w", err)
		}
		svc.Active = false
	}
	return &svc, nil
}

func (s *CatalogService) Update(id uint, req *dto.ServiceRequest) (*models.Service, error) {
	svc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":           req.Name,
		"name_zh":        req.NameZh,
		"price":          req.Price,
		"duration":       req.Duration,
		"description":    req.Description,
		"description_zh": req.DescriptionZh,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if err := s.db.Model(svc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return s.Get(id)
}

func (s *CatalogService) Delete(id uint) error {
	result := s.db.Delete(&models.Service{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete service: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// SeedDefaults fills an empty catalogue with the launch offering.
func (s *CatalogService) SeedDefaults() error {
	var count int64
	if err := s.db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []models.Service{
		{
			Name:          "Online Specialist Consultation",
			NameZh:        "在线专家会诊",
			Price:         17.99,
			Duration:      "30 mins",
			Description:   "Video consultation with a specialist from a top-tier Chinese hospital.",
			DescriptionZh: "与中国三甲医院专家进行视频会诊。",
			Active:        true,
		},
		{
			Name:          "Basic Medical Check-up",
			NameZh:        "基础体检套餐",
			Price:         199,
			Duration:      "1 day",
			Description:   "Comprehensive health screening with a report in English.",
			DescriptionZh: "全面健康筛查，并提供英文报告。",
			Active:        true,
		},
	}
	return s.db.Create(&seed).Error
}
