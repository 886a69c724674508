package plan

import (
	"time"
)

type Plan struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Price             int64         `json:"price"` // whole currency units
	OptimizationQuota int           `json:"optimization_quota"`
	Validity          time.Duration `json:"validity"`
}
