package fraud

import "time"

type SecurityEvent struct {
	ID            int64     `json:"id"`
	AccountID     string    `json:"account_id"`
	EventType     string    `json:"event_type"`
	Details       string    `json:"details"`
	NetworkOrigin string    `json:"network_origin"`
	RiskScore     int       `json:"risk_score"`
	CreatedAt     time.Time `json:"created_at"`
}
