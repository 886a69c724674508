package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"optihub/internal/coupon"
	"optihub/internal/subscription"
	"optihub/internal/subscription/service"
	"optihub/pkg/middleware"
)

type stubSubRepo struct {
	sub *subscription.Subscription
	err error
}

func (s *stubSubRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	return nil
}

func (s *stubSubRepo) GetCurrentByAccount(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	return s.sub, s.err
}

type stubTxRepo struct {
	tx *subscription.PaymentTransaction
}

func (s *stubTxRepo) Create(ctx context.Context, t *subscription.PaymentTransaction) error {
	return nil
}

func (s *stubTxRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*subscription.PaymentTransaction, error) {
	return s.tx, nil
}

type stubUsageRepo struct{}

func (s *stubUsageRepo) Insert(ctx context.Context, u *coupon.UsageRecord) error {
	return nil
}

func newHandler(repo *stubSubRepo) *Handler {
	svc := service.NewService(repo, &stubTxRepo{}, &stubUsageRepo{}, zap.NewNop())
	return NewHandler(svc, zap.NewNop())
}

func authedRequest(accountID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/subscription", nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, accountID)
	return req.WithContext(ctx)
}

func TestGetSubscription(t *testing.T) {
	repo := &stubSubRepo{sub: &subscription.Subscription{
		ID:        "sub-1",
		AccountID: "acct-1",
		PlanID:    "monthly",
		Status:    subscription.StatusActive,
		EndAt:     time.Now().Add(24 * time.Hour),
	}}
	h := newHandler(repo)

	rec := httptest.NewRecorder()
	h.GetSubscription(rec, authedRequest("acct-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success      bool                       `json:"success"`
		Subscription *subscription.Subscription `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Subscription)
	assert.Equal(t, "sub-1", body.Subscription.ID)
	assert.Equal(t, subscription.StatusActive, body.Subscription.Status)
}

func TestGetSubscriptionIncludesTransaction(t *testing.T) {
	repo := &stubSubRepo{sub: &subscription.Subscription{
		ID:     "sub-1",
		Status: subscription.StatusActive,
		EndAt:  time.Now().Add(24 * time.Hour),
	}}
	txs := &stubTxRepo{tx: &subscription.PaymentTransaction{
		ID:             "tx-1",
		SubscriptionID: "sub-1",
		Amount:         4900,
		Currency:       "INR",
		Status:         "completed",
	}}
	svc := service.NewService(repo, txs, &stubUsageRepo{}, zap.NewNop())
	h := NewHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetSubscription(rec, authedRequest("acct-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Transaction *subscription.PaymentTransaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Transaction)
	assert.Equal(t, "tx-1", body.Transaction.ID)
	assert.Equal(t, int64(4900), body.Transaction.Amount)
}

func TestGetSubscriptionExpiredAtReadTime(t *testing.T) {
	repo := &stubSubRepo{sub: &subscription.Subscription{
		ID:     "sub-1",
		Status: subscription.StatusActive,
		EndAt:  time.Now().Add(-time.Minute),
	}}
	h := newHandler(repo)

	rec := httptest.NewRecorder()
	h.GetSubscription(rec, authedRequest("acct-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Subscription *subscription.Subscription `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Subscription)
	assert.Equal(t, subscription.StatusExpired, body.Subscription.Status)
}

func TestGetSubscriptionNone(t *testing.T) {
	h := newHandler(&stubSubRepo{})

	rec := httptest.NewRecorder()
	h.GetSubscription(rec, authedRequest("acct-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["subscription"])
}

func TestGetSubscriptionUnauthenticated(t *testing.T) {
	h := newHandler(&stubSubRepo{})

	rec := httptest.NewRecorder()
	h.GetSubscription(rec, httptest.NewRequest(http.MethodGet, "/api/subscription", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetSubscriptionLookupFailure(t *testing.T) {
	h := newHandler(&stubSubRepo{err: assert.AnError})

	rec := httptest.NewRecorder()
	h.GetSubscription(rec, authedRequest("acct-1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
