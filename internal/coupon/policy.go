package coupon

import (
	"strings"
)

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFull       Kind = "full"
)

// Rule maps a coupon code to its discount behaviour. PlanID is empty
// for codes that apply to any plan; full-discount codes are each
// scoped to exactly one plan.
type Rule struct {
	Code         string
	Kind         Kind
	Percent      int64  // only for KindPercentage
	PlanID       string // "" = any plan
	OnceGlobally bool
}

// rules is the single place coupon behaviour is defined. Both the
// order path and the free-grant path resolve through it.
var rules = map[string]Rule{
	"WORTHYONE": {
		Code:    "WORTHYONE",
		Kind:    KindPercentage,
		Percent: 50,
	},
	"FULLSUPPORT": {
		Code:   "FULLSUPPORT",
		Kind:   KindFull,
		PlanID: "monthly",
	},
	"FREETRIAL": {
		Code:         "FREETRIAL",
		Kind:         KindFull,
		PlanID:       "hourly",
		OnceGlobally: true,
	},
}

func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup resolves a raw code to its rule. The code is normalized first.
func Lookup(code string) (Rule, bool) {
	r, ok := rules[Normalize(code)]
	return r, ok
}

// AppliesTo reports whether the rule can be redeemed against the plan.
func (r Rule) AppliesTo(planID string) bool {
	return r.PlanID == "" || r.PlanID == planID
}

// Discount returns the discount amount for a plan price. Percentage
// discounts round down; the result never exceeds the price.
func (r Rule) Discount(price int64) int64 {
	switch r.Kind {
	case KindFull:
		return price
	case KindPercentage:
		d := price * r.Percent / 100
		if d > price {
			return price
		}
		return d
	default:
		return 0
	}
}
