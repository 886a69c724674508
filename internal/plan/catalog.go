package plan

import (
	"errors"
	"time"
)

var ErrPlanNotFound = errors.New("plan not found")

// catalog is fixed at deploy time. Prices are INR rupees.
var catalog = map[string]Plan{
	"hourly": {
		ID:                "hourly",
		Name:              "Hourly Boost",
		Price:             19,
		OptimizationQuota: 5,
		Validity:          time.Hour,
	},
	"daily": {
		ID:                "daily",
		Name:              "Daily Sprint",
		Price:             49,
		OptimizationQuota: 10,
		Validity:          24 * time.Hour,
	},
	"weekly": {
		ID:                "weekly",
		Name:              "Weekly Push",
		Price:             149,
		OptimizationQuota: 35,
		Validity:          7 * 24 * time.Hour,
	},
	"monthly": {
		ID:                "monthly",
		Name:              "Monthly Partner",
		Price:             349,
		OptimizationQuota: 100,
		Validity:          30 * 24 * time.Hour,
	},
}

var order = []string{"hourly", "daily", "weekly", "monthly"}

func Resolve(id string) (Plan, error) {
	p, ok := catalog[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p, nil
}

func All() []Plan {
	plans := make([]Plan, 0, len(order))
	for _, id := range order {
		plans = append(plans, catalog[id])
	}
	return plans
}
