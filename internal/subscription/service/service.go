package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"optihub/internal/coupon"
	"optihub/internal/metrics"
	"optihub/internal/plan"
	"optihub/internal/subscription"
)

var (
	// ErrCouponAlreadyConsumed means the reservation insert lost the
	// race to a concurrent redemption by the same account. Its network
	// twin means a different account behind the same origin won first.
	// In either case nothing was provisioned.
	ErrCouponAlreadyConsumed     = errors.New("coupon already consumed")
	ErrCouponConsumedFromNetwork = errors.New("coupon already consumed from this network")
	ErrProvisionFailure          = errors.New("subscription provisioning failed")
)

type Repository interface {
	Create(ctx context.Context, s *subscription.Subscription) error
	GetCurrentByAccount(ctx context.Context, accountID string) (*subscription.Subscription, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *subscription.PaymentTransaction) error
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*subscription.PaymentTransaction, error)
}

type UsageRepository interface {
	Insert(ctx context.Context, u *coupon.UsageRecord) error
}

// ProvisionParams is a validated (plan, discount, payer) tuple plus
// the payment reference the subscription should carry.
type ProvisionParams struct {
	AccountID        string
	Plan             plan.Plan
	NetworkOrigin    string
	CouponCode       string
	DiscountAmount   int64
	PaymentRef       string
	GatewayPaymentID string
	GatewayOrderID   string
	Amount           int64 // gateway-confirmed amount; 0 for free grants
	Currency         string
	Reservation      *coupon.UsageRecord
}

type Service struct {
	repo   Repository
	txRepo TransactionRepository
	usage  UsageRepository
	logger *zap.Logger
}

func NewService(repo Repository, txRepo TransactionRepository, usage UsageRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, txRepo: txRepo, usage: usage, logger: logger}
}

// Provision creates the subscription and its payment transaction as
// one logical unit. There is no cross-statement transaction: ordering
// does the work. The usage insert comes strictly first so that a lost
// coupon race can never leave a subscription behind, and a transaction
// write failure after the subscription exists is logged but never
// rolls the grant back.
func (s *Service) Provision(ctx context.Context, p ProvisionParams) (*subscription.Subscription, error) {
	if p.Reservation != nil {
		if err := s.usage.Insert(ctx, p.Reservation); err != nil {
			if errors.Is(err, coupon.ErrUsageExists) || errors.Is(err, coupon.ErrUsageExistsNetwork) {
				metrics.CouponRaceLostTotal.Inc()
				s.logger.Warn("reservation lost to concurrent redemption",
					zap.String("account_id", p.AccountID),
					zap.String("network_origin", p.NetworkOrigin),
					zap.String("coupon_code", p.CouponCode))
				if errors.Is(err, coupon.ErrUsageExistsNetwork) {
					return nil, ErrCouponConsumedFromNetwork
				}
				return nil, ErrCouponAlreadyConsumed
			}
			return nil, fmt.Errorf("%w: insert reservation: %v", ErrProvisionFailure, err)
		}
		s.logger.Info("coupon reservation recorded",
			zap.String("account_id", p.AccountID),
			zap.String("coupon_code", p.CouponCode))
	} else if p.CouponCode != "" {
		record := &coupon.UsageRecord{
			NetworkOrigin: p.NetworkOrigin,
			AccountID:     p.AccountID,
			CouponCode:    p.CouponCode,
		}
		if err := s.usage.Insert(ctx, record); err != nil {
			return nil, fmt.Errorf("%w: insert usage record: %v", ErrProvisionFailure, err)
		}
	}

	now := time.Now()
	sub := &subscription.Subscription{
		ID:         uuid.NewString(),
		AccountID:  p.AccountID,
		PlanID:     p.Plan.ID,
		Status:     subscription.StatusActive,
		StartAt:    now,
		EndAt:      now.Add(p.Plan.Validity),
		QuotaUsed:  0,
		QuotaTotal: p.Plan.OptimizationQuota,
		PaymentID:  p.PaymentRef,
		CouponUsed: p.CouponCode,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		// The reservation, if any, stays consumed. Accepted cost of
		// not having distributed transactions.
		return nil, fmt.Errorf("%w: insert subscription: %v", ErrProvisionFailure, err)
	}

	tx := &subscription.PaymentTransaction{
		ID:               uuid.NewString(),
		AccountID:        p.AccountID,
		SubscriptionID:   sub.ID,
		GatewayPaymentID: p.GatewayPaymentID,
		GatewayOrderID:   p.GatewayOrderID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           "completed",
		CouponCode:       p.CouponCode,
		DiscountAmount:   p.DiscountAmount,
		FinalAmount:      p.Plan.Price - p.DiscountAmount,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		// The subscription stands: a usable-but-unbilled grant beats
		// stranding a user whose coupon or money is already committed.
		metrics.TransactionWriteFailuresTotal.Inc()
		s.logger.Error("payment transaction write failed after subscription creation",
			zap.String("subscription_id", sub.ID),
			zap.String("account_id", p.AccountID),
			zap.Error(err))
		return sub, nil
	}

	grant := "paid"
	if p.Amount == 0 {
		grant = "free"
	}
	metrics.SubscriptionsProvisionedTotal.WithLabelValues(p.Plan.ID, grant).Inc()

	return sub, nil
}

// Current returns the account's latest subscription with its status
// evaluated against the clock.
func (s *Service) Current(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	sub, err := s.repo.GetCurrentByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return nil, nil
	}
	sub.Status = sub.EffectiveStatus(time.Now())
	return sub, nil
}

// Transaction returns the payment transaction backing a subscription.
// Nil without error means the transaction write was lost after the
// grant; those subscriptions are found by exactly this lookup.
func (s *Service) Transaction(ctx context.Context, subscriptionID string) (*subscription.PaymentTransaction, error) {
	tx, err := s.txRepo.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}
