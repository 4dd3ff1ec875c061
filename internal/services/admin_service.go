package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCannotDeleteAdmin = errors.New("admin accounts cannot be deleted")
	ErrInvalidRole       = errors.New("role must be user or admin")
)

const minPasswordLength = 6

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) Dashboard() (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{ConsultationsByStatus: map[string]int64{}}

	if err := s.db.Model(&models.User{}).Where("role <> ?", models.RoleAdmin).Count(&resp.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Count(&resp.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&resp.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Where("status = ?", models.OrderCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&resp.Revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.PatientConsultation{}).Select("status, COUNT(*) AS count").
		Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count consultations: %w", err)
	}
	for _, r := range rows {
		resp.ConsultationsByStatus[r.Status] = r.Count
	}

	resp.RecentUsers = []models.User{}
	if err := s.db.Where("role <> ?", models.RoleAdmin).Order("created_at DESC").Limit(5).Find(&resp.RecentUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent users: %w", err)
	}
	resp.RecentOrders = []models.Order{}
	if err := s.db.Order("created_at DESC").Limit(5).Find(&resp.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	return resp, nil
}

func (s *AdminService) ListUsers(search string, limit, offset int) (*dto.UserListResponse, error) {
	limit, offset = clampPage(limit, offset)

	q := s.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	users := []models.User{}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &dto.UserListResponse{Data: users, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *AdminService) SetRole(userID uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes a regular account the same way self-deletion does.
func (s *AdminService) DeleteUser(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.IsAdmin() {
		return ErrCannotDeleteAdmin
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PatientConsultation{}).Where("user_id = ?", userID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// MakeAdmin promotes the account with the given email, creating it first when
// it does not exist. The bool reports whether the account was created.
func (s *AdminService) MakeAdmin(email, password string) (*models.User, bool, error) {
	email = normalizeEmail(email)

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if err := s.db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return nil, false, fmt.Errorf("failed to promote user: %w", err)
		}
		user.Role = models.RoleAdmin
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	if len(password) < minPasswordLength {
		return nil, false, fmt.Errorf("password of at least %d characters is required to create %s", minPasswordLength, email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user = models.User{
		Email:              email,
		Name:               localPart(email),
		PasswordHash:       string(hash),
		LoginMethod:        models.LoginMethodEmail,
		Role:               models.RoleAdmin,
		TermsAccepted:      true,
		SubscribedToEmails: true,
		TermsAcceptedAt:    &now,
		Language:           "en",
		LastSignedIn:       now,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}
	return &user, true, nil
}
