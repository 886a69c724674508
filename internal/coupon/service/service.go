package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"optihub/internal/coupon"
	"optihub/internal/metrics"
	"optihub/internal/plan"
)

var (
	ErrUnknownCoupon   = errors.New("unknown coupon code")
	ErrIneligiblePlan  = errors.New("coupon not eligible for this plan")
	ErrUsedByAccount   = errors.New("coupon already used by this account")
	ErrUsedFromNetwork = errors.New("coupon already used from this network")
)

type UsageRepository interface {
	HasAccountUsed(ctx context.Context, accountID, code string) (bool, error)
	HasOriginUsed(ctx context.Context, origin, code string) (bool, error)
}

// Evaluation is the outcome of a successful coupon check. Reservation
// is set only for once-globally codes: it is the usage row the
// provisioner must insert before granting anything.
type Evaluation struct {
	Code           string
	DiscountAmount int64
	Reservation    *coupon.UsageRecord
}

type Service struct {
	repo   UsageRepository
	logger *zap.Logger
}

func NewService(repo UsageRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Evaluate resolves a coupon code against a plan for an account and
// network origin. The one-time-use reads here are a fast rejection
// path only; the unique-indexed insert during provisioning is the
// authoritative guard.
func (s *Service) Evaluate(ctx context.Context, code string, p plan.Plan, accountID, origin string) (*Evaluation, error) {
	if code == "" {
		return &Evaluation{}, nil
	}

	rule, ok := coupon.Lookup(code)
	if !ok {
		// Client-supplied strings never become label values: a fixed
		// placeholder keeps the metric family bounded.
		metrics.CouponRedemptionsTotal.WithLabelValues("unknown", "unknown").Inc()
		return nil, ErrUnknownCoupon
	}

	if !rule.AppliesTo(p.ID) {
		metrics.CouponRedemptionsTotal.WithLabelValues(rule.Code, "ineligible_plan").Inc()
		return nil, ErrIneligiblePlan
	}

	eval := &Evaluation{
		Code:           rule.Code,
		DiscountAmount: rule.Discount(p.Price),
	}

	if rule.OnceGlobally {
		used, err := s.repo.HasAccountUsed(ctx, accountID, rule.Code)
		if err != nil {
			return nil, fmt.Errorf("check account usage: %w", err)
		}
		if used {
			metrics.CouponRedemptionsTotal.WithLabelValues(rule.Code, "used_by_account").Inc()
			return nil, ErrUsedByAccount
		}

		used, err = s.repo.HasOriginUsed(ctx, origin, rule.Code)
		if err != nil {
			return nil, fmt.Errorf("check network usage: %w", err)
		}
		if used {
			metrics.CouponRedemptionsTotal.WithLabelValues(rule.Code, "used_from_network").Inc()
			s.logger.Info("coupon blocked by network origin",
				zap.String("code", rule.Code),
				zap.String("account_id", accountID),
				zap.String("network_origin", origin))
			return nil, ErrUsedFromNetwork
		}

		eval.Reservation = &coupon.UsageRecord{
			NetworkOrigin: origin,
			AccountID:     accountID,
			CouponCode:    rule.Code,
			OnceOnly:      true,
		}
	}

	metrics.CouponRedemptionsTotal.WithLabelValues(rule.Code, "eligible").Inc()
	return eval, nil
}
