package dto

import "github.com/vitacross/vitacross-api/internal/models"

type ServiceRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	NameZh        string  `json:"nameZh" validate:"omitempty,max=200"`
	Price         float64 `json:"price" validate:"gt=0"`
	Duration      string  `json:"duration" validate:"omitempty,max=50"`
	Description   string  `json:"description"`
	DescriptionZh string  `json:"descriptionZh"`
	Active        *bool   `json:"active"`
}

type CreateOrderRequest struct {
	ServiceID     uint   `json:"serviceId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=credit_card paypal wechat_pay alipay"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

type OrderListResponse struct {
	Data   []models.Order `json:"data"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// PaymentResponse is a completed order seen as a payment transaction.
type PaymentResponse struct {
	OrderID       uint    `json:"orderId"`
	UserEmail     string  `json:"userEmail"`
	ServiceName   string  `json:"serviceName"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"paymentMethod"`
	Reference     string  `json:"reference"`
	PaidAt        string  `json:"paidAt"`
}
