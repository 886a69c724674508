package coupon

import (
	"errors"
	"time"
)

// ErrUsageExists and ErrUsageExistsNetwork are returned by
// repositories when a usage insert hits one of the one-time-use unique
// indexes. They are the authoritative signal that a concurrent
// redemption won the race; the two distinguish which axis lost, since
// a different account behind the same network can win the origin index.
var (
	ErrUsageExists        = errors.New("coupon usage already recorded for account")
	ErrUsageExistsNetwork = errors.New("coupon usage already recorded for network")
)

// UsageRecord is one row of the append-only coupon/network ledger.
// CouponCode is empty for coupon-less paid orders.
type UsageRecord struct {
	ID            int64     `json:"id"`
	NetworkOrigin string    `json:"network_origin"`
	AccountID     string    `json:"account_id"`
	CouponCode    string    `json:"coupon_code,omitempty"`
	OnceOnly      bool      `json:"once_only"`
	UsedAt        time.Time `json:"used_at"`
}
