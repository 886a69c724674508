package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"optihub/internal/coupon"
	couponservice "optihub/internal/coupon/service"
	"optihub/internal/plan"
	"optihub/internal/subscription"
	subscriptionservice "optihub/internal/subscription/service"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type Gateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
}

type Provisioner interface {
	Provision(ctx context.Context, p subscriptionservice.ProvisionParams) (*subscription.Subscription, error)
}

type UsageRecorder interface {
	Insert(ctx context.Context, u *coupon.UsageRecord) error
}

// OrderResult is either a directly provisioned free grant or a
// gateway order awaiting off-band payment completion.
type OrderResult struct {
	Free         bool
	Subscription *subscription.Subscription
	OrderID      string
	Amount       int64 // minor units, what the gateway will charge
	Currency     string
	FinalAmount  int64 // whole currency units after discount
}

type Service struct {
	gateway     Gateway
	provisioner Provisioner
	usage       UsageRecorder
	currency    string
	logger      *zap.Logger
}

func NewService(gateway Gateway, provisioner Provisioner, usage UsageRecorder, currency string, logger *zap.Logger) *Service {
	return &Service{
		gateway:     gateway,
		provisioner: provisioner,
		usage:       usage,
		currency:    currency,
		logger:      logger,
	}
}

// BuildOrder computes the payable amount for a plan and an already
// evaluated coupon. A zero amount is provisioned immediately; anything
// else becomes a single gateway order-creation attempt.
func (s *Service) BuildOrder(ctx context.Context, accountID, origin string, p plan.Plan, eval *couponservice.Evaluation) (*OrderResult, error) {
	finalAmount := p.Price - eval.DiscountAmount
	if finalAmount < 0 {
		finalAmount = 0
	}

	if finalAmount == 0 {
		sub, err := s.provisioner.Provision(ctx, subscriptionservice.ProvisionParams{
			AccountID:      accountID,
			Plan:           p,
			NetworkOrigin:  origin,
			CouponCode:     eval.Code,
			DiscountAmount: eval.DiscountAmount,
			PaymentRef:     "free_" + uuid.NewString(),
			Amount:         0,
			Currency:       s.currency,
			Reservation:    eval.Reservation,
		})
		if err != nil {
			return nil, err
		}
		return &OrderResult{
			Free:         true,
			Subscription: sub,
			Currency:     s.currency,
		}, nil
	}

	order, err := s.gateway.CreateOrder(ctx, GatewayOrderRequest{
		Amount:   finalAmount * 100,
		Currency: s.currency,
		Receipt:  uuid.NewString(),
		Notes: map[string]string{
			"plan_id":         p.ID,
			"account_id":      accountID,
			"coupon_code":     eval.Code,
			"discount_amount": strconv.FormatInt(eval.DiscountAmount, 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	// Heuristic ledger entry for the fraud axis. Best effort: a failed
	// append must not fail a successfully created order.
	record := &coupon.UsageRecord{
		NetworkOrigin: origin,
		AccountID:     accountID,
		CouponCode:    eval.Code,
	}
	if err := s.usage.Insert(ctx, record); err != nil {
		s.logger.Error("failed to append usage record for order",
			zap.String("account_id", accountID),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	return &OrderResult{
		OrderID:     order.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		FinalAmount: finalAmount,
	}, nil
}
