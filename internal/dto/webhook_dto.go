package dto

// PaymentWebhook is the notification body sent by the payment provider.
type PaymentWebhook struct {
	ID    string       `json:"id"`
	Event PaymentEvent `json:"event"`
}

type PaymentEvent struct {
	Type      string  `json:"type"`
	OrderID   uint    `json:"order_id"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	PaidAtMs  int64   `json:"paid_at_ms"`
}
