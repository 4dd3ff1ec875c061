package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrServiceUnavailable = errors.New("service is not available")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

const (
	PaymentSucceeded = "payment.succeeded"
	PaymentFailed    = "payment.failed"
	PaymentCancelled = "payment.cancelled"
)

type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// Create places a pending order for an active catalogue service at its
// current price.
func (s *OrderService) Create(userID uint, req *dto.CreateOrderRequest) (*models.Order, error) {
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, errors.New("unsupported payment method")
	}

	var svc models.Service
	if err := s.db.Where("id = ? AND active = ?", req.ServiceID, true).First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceUnavailable
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	order := models.Order{
		UserID:        userID,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		Amount:        svc.Price,
		Currency:      "USD",
		Status:        models.OrderPending,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &order, nil
}

func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) List(status string, limit, offset int) (*dto.OrderListResponse, error) {
	limit, offset = clampPage(limit, offset)

	q := s.db.Model(&models.Order{})
	if status != "" {
		if !models.ValidOrderStatus(status) {
			return nil, ErrInvalidOrderStatus
		}
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []models.Order{}
	if err := q.Preload("User").Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &dto.OrderListResponse{Data: orders, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

func (s *OrderService) SetStatus(id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if status == models.OrderCompleted && order.PaidAt == nil {
		updates["paid_at"] = s.now()
	}
	if err := s.db.Model(order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return s.Get(id)
}

// Payments lists completed orders as payment transactions.
func (s *OrderService) Payments(limit, offset int) ([]dto.PaymentResponse, error) {
	limit, offset = clampPage(limit, offset)

	var orders []models.Order
	err := s.db.Preload("User").Where("status = ?", models.OrderCompleted).
		Order("paid_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]dto.PaymentResponse, 0, len(orders))
	for _, o := range orders {
		p := dto.PaymentResponse{
			OrderID:       o.ID,
			ServiceName:   o.ServiceName,
			Amount:        o.Amount,
			Currency:      o.Currency,
			PaymentMethod: o.PaymentMethod,
			Reference:     o.PaymentReference,
		}
		if o.User != nil {
			p.UserEmail = o.User.Email
		}
		if o.PaidAt != nil {
			p.PaidAt = o.PaidAt.UTC().Format(time.RFC3339)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// HandlePaymentEvent applies a payment provider notification to its order.
// Unknown event types are ignored.
func (s *OrderService) HandlePaymentEvent(event *dto.PaymentEvent) error {
	switch event.Type {
	case PaymentSucceeded:
		return s.handleSucceeded(event)
	case PaymentFailed, PaymentCancelled:
		return s.handleCancelled(event)
	default:
		slog.Info("ignoring payment event", "event_type", event.Type)
		return nil
	}
}

func (s *OrderService) handleSucceeded(event *dto.PaymentEvent) error {
	order, err := s.Get(event.OrderID)
	if err != nil {
		return err
	}

	paidAt := s.now()
	if event.PaidAtMs > 0 {
		paidAt = msToTime(event.PaidAtMs)
	}
	return s.db.Model(order).Updates(map[string]interface{}{
		"status":            models.OrderCompleted,
		"paid_at":           paidAt,
		"payment_reference": event.Reference,
	}).Error
}

func (s *OrderService) handleCancelled(event *dto.PaymentEvent) error {
	order, err := s.Get(event.OrderID)
	if err != nil {
		return err
	}
	// a late failure notice must not undo a completed payment
	if order.Status == models.OrderCompleted {
		return nil
	}
	return s.db.Model(order).Update("status", models.OrderCancelled).Error
}

func msToTime(ms int64) time.Time {
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond))
}
