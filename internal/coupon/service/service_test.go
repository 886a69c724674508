package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"optihub/internal/metrics"
	"optihub/internal/plan"
)

type fakeUsageRepo struct {
	accountUsed bool
	originUsed  bool
	err         error
}

func (f *fakeUsageRepo) HasAccountUsed(ctx context.Context, accountID, code string) (bool, error) {
	return f.accountUsed, f.err
}

func (f *fakeUsageRepo) HasOriginUsed(ctx context.Context, origin, code string) (bool, error) {
	return f.originUsed, f.err
}

func mustPlan(t *testing.T, id string) plan.Plan {
	t.Helper()
	p, err := plan.Resolve(id)
	require.NoError(t, err)
	return p
}

func TestEvaluateNoCoupon(t *testing.T) {
	svc := NewService(&fakeUsageRepo{}, zap.NewNop())

	eval, err := svc.Evaluate(context.Background(), "", mustPlan(t, "monthly"), "acct-1", "10.0.0.1")
	require.NoError(t, err)
	assert.Zero(t, eval.DiscountAmount)
	assert.Nil(t, eval.Reservation)
}

func TestEvaluateUnknownCoupon(t *testing.T) {
	svc := NewService(&fakeUsageRepo{}, zap.NewNop())

	_, err := svc.Evaluate(context.Background(), "NOSUCH", mustPlan(t, "monthly"), "acct-1", "10.0.0.1")
	assert.ErrorIs(t, err, ErrUnknownCoupon)
}

// Arbitrary client strings must not mint new counter children, or a
// code-guessing client grows the metric family without bound.
func TestEvaluateUnknownCouponMetricIsBounded(t *testing.T) {
	svc := NewService(&fakeUsageRepo{}, zap.NewNop())

	childrenBefore := testutil.CollectAndCount(metrics.CouponRedemptionsTotal)
	countBefore := testutil.ToFloat64(metrics.CouponRedemptionsTotal.WithLabelValues("unknown", "unknown"))

	garbage := []string{"GARBAGE-1", "GARBAGE-2", "GARBAGE-3"}
	for _, code := range garbage {
		_, err := svc.Evaluate(context.Background(), code, mustPlan(t, "monthly"), "acct-1", "10.0.0.1")
		assert.ErrorIs(t, err, ErrUnknownCoupon)
	}

	// at most the one placeholder child, however many distinct codes
	childrenAfter := testutil.CollectAndCount(metrics.CouponRedemptionsTotal)
	assert.LessOrEqual(t, childrenAfter-childrenBefore, 1)
	assert.Equal(t, countBefore+float64(len(garbage)),
		testutil.ToFloat64(metrics.CouponRedemptionsTotal.WithLabelValues("unknown", "unknown")))
}

func TestEvaluateIneligiblePlan(t *testing.T) {
	svc := NewService(&fakeUsageRepo{}, zap.NewNop())

	_, err := svc.Evaluate(context.Background(), "FREETRIAL", mustPlan(t, "daily"), "acct-1", "10.0.0.1")
	assert.ErrorIs(t, err, ErrIneligiblePlan)
}

func TestEvaluateTrialAlreadyUsedByAccount(t *testing.T) {
	svc := NewService(&fakeUsageRepo{accountUsed: true}, zap.NewNop())

	_, err := svc.Evaluate(context.Background(), "FREETRIAL", mustPlan(t, "hourly"), "acct-1", "10.0.0.1")
	assert.ErrorIs(t, err, ErrUsedByAccount)
}

func TestEvaluateTrialAlreadyUsedFromNetwork(t *testing.T) {
	svc := NewService(&fakeUsageRepo{originUsed: true}, zap.NewNop())

	_, err := svc.Evaluate(context.Background(), "FREETRIAL", mustPlan(t, "hourly"), "acct-2", "10.0.0.1")
	assert.ErrorIs(t, err, ErrUsedFromNetwork)
}

func TestEvaluateTrialProducesReservation(t *testing.T) {
	svc := NewService(&fakeUsageRepo{}, zap.NewNop())

	eval, err := svc.Evaluate(context.Background(), " freetrial ", mustPlan(t, "hourly"), "acct-1", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, int64(19), eval.DiscountAmount)
	require.NotNil(t, eval.Reservation)
	assert.Equal(t, "FREETRIAL", eval.Reservation.CouponCode)
	assert.Equal(t, "acct-1", eval.Reservation.AccountID)
	assert.Equal(t, "10.0.0.1", eval.Reservation.NetworkOrigin)
	assert.True(t, eval.Reservation.OnceOnly)
}

func TestEvaluatePercentageCouponNeedsNoReservation(t *testing.T) {
	svc := NewService(&fakeUsageRepo{}, zap.NewNop())

	eval, err := svc.Evaluate(context.Background(), "WORTHYONE", mustPlan(t, "hourly"), "acct-1", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, int64(9), eval.DiscountAmount)
	assert.Nil(t, eval.Reservation)
}

func TestEvaluateLedgerErrorPropagates(t *testing.T) {
	svc := NewService(&fakeUsageRepo{err: errors.New("db down")}, zap.NewNop())

	_, err := svc.Evaluate(context.Background(), "FREETRIAL", mustPlan(t, "hourly"), "acct-1", "10.0.0.1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsedByAccount)
}
