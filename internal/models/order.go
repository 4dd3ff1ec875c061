package models

import "time"

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

var orderStatuses = map[string]bool{
	OrderPending:   true,
	OrderCompleted: true,
	OrderCancelled: true,
}

var paymentMethods = map[string]bool{
	"credit_card": true,
	"paypal":      true,
	"wechat_pay":  true,
	"alipay":      true,
}

func ValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

func ValidPaymentMethod(s string) bool {
	return paymentMethods[s]
}

// Order records a user's purchase of a catalogue service.
type Order struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"userId"`
	ServiceID        uint       `gorm:"not null;index" json:"serviceId"`
	ServiceName      string     `gorm:"size:255;not null" json:"serviceName"`
	Amount           float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency         string     `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Status           string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod    string     `gorm:"size:20;not null" json:"paymentMethod"`
	PaymentReference string     `gorm:"size:255;index" json:"paymentReference,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	User             *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
