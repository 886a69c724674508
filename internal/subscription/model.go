package subscription

import "time"

const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

type Subscription struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	PlanID     string    `json:"plan_id"`
	Status     string    `json:"status"` // evaluated against EndAt at read time
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	QuotaUsed  int       `json:"quota_used"`
	QuotaTotal int       `json:"quota_total"`
	PaymentID  string    `json:"payment_id,omitempty"`
	CouponUsed string    `json:"coupon_used,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EffectiveStatus applies the wall-clock expiry rule. There is no
// background job flipping rows; readers call this.
func (s *Subscription) EffectiveStatus(now time.Time) string {
	if s.Status == StatusActive && now.After(s.EndAt) {
		return StatusExpired
	}
	return s.Status
}

type PaymentTransaction struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"account_id"`
	SubscriptionID   string    `json:"subscription_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	GatewayOrderID   string    `json:"gateway_order_id,omitempty"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	CouponCode       string    `json:"coupon_code,omitempty"`
	DiscountAmount   int64     `json:"discount_amount"`
	FinalAmount      int64     `json:"final_amount"`
	CreatedAt        time.Time `json:"created_at"`
}
