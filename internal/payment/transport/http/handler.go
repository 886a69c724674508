package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"optihub/internal/api/dto"
	"optihub/internal/api/httpjson"
	couponservice "optihub/internal/coupon/service"
	paymentservice "optihub/internal/payment/service"
	"optihub/internal/plan"
	subscriptionservice "optihub/internal/subscription/service"
	"optihub/pkg/middleware"
)

type Handler struct {
	Coupons *couponservice.Service
	Orders  *paymentservice.Service
	KeyID   string
	logger  *zap.Logger
}

func NewHandler(coupons *couponservice.Service, orders *paymentservice.Service, keyID string, logger *zap.Logger) *Handler {
	return &Handler{
		Coupons: coupons,
		Orders:  orders,
		KeyID:   keyID,
		logger:  logger,
	}
}

// CreateOrder resolves plan and coupon into a final price. A fully
// discounted plan is provisioned on the spot; anything payable comes
// back as a gateway order for client-side completion.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusUnauthorized, "missing account identity")
		return
	}
	origin := middleware.ClientOrigin(r.Context())

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := dto.Validate.Struct(req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	p, err := plan.Resolve(req.PlanID)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	eval, err := h.Coupons.Evaluate(r.Context(), req.CouponCode, p, accountID, origin)
	if err != nil {
		h.writeCouponError(w, err, accountID)
		return
	}

	result, err := h.Orders.BuildOrder(r.Context(), accountID, origin, p, eval)
	if err != nil {
		h.writeOrderError(w, err, accountID)
		return
	}

	if result.Free {
		httpjson.Write(w, http.StatusCreated, map[string]interface{}{
			"success":         true,
			"free":            true,
			"subscription_id": result.Subscription.ID,
		})
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"order_id": result.OrderID,
		"amount":   result.Amount,
		"currency": result.Currency,
		"key_id":   h.KeyID,
	})
}

// CreateFreeSubscription grants a subscription for a coupon that fully
// covers the plan price. Same evaluation path as CreateOrder, so the
// two can never disagree on what a coupon is worth.
func (h *Handler) CreateFreeSubscription(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusUnauthorized, "missing account identity")
		return
	}
	origin := middleware.ClientOrigin(r.Context())

	var req dto.CreateFreeSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := dto.Validate.Struct(req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "plan_id, user_id and coupon_code are required")
		return
	}

	if req.UserID != accountID {
		httpjson.WriteError(w, http.StatusBadRequest, "user does not match credential")
		return
	}

	p, err := plan.Resolve(req.PlanID)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	eval, err := h.Coupons.Evaluate(r.Context(), req.CouponCode, p, accountID, origin)
	if err != nil {
		h.writeCouponError(w, err, accountID)
		return
	}
	if eval.DiscountAmount < p.Price {
		httpjson.WriteError(w, http.StatusBadRequest, "coupon does not grant a free subscription")
		return
	}

	result, err := h.Orders.BuildOrder(r.Context(), accountID, origin, p, eval)
	if err != nil {
		h.writeOrderError(w, err, accountID)
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]interface{}{
		"success":         true,
		"subscription_id": result.Subscription.ID,
	})
}

func (h *Handler) writeOrderError(w http.ResponseWriter, err error, accountID string) {
	switch {
	// Lost races carry the same user-facing messages as the fast-path
	// checks, per losing axis.
	case errors.Is(err, subscriptionservice.ErrCouponAlreadyConsumed):
		httpjson.WriteError(w, http.StatusConflict, couponservice.ErrUsedByAccount.Error())
	case errors.Is(err, subscriptionservice.ErrCouponConsumedFromNetwork):
		httpjson.WriteError(w, http.StatusConflict, couponservice.ErrUsedFromNetwork.Error())
	case errors.Is(err, paymentservice.ErrGatewayUnavailable):
		httpjson.WriteError(w, http.StatusBadGateway, "payment gateway unavailable, try again later")
	default:
		h.logger.Error("order creation failed",
			zap.String("account_id", accountID),
			zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "failed to create order")
	}
}

func (h *Handler) writeCouponError(w http.ResponseWriter, err error, accountID string) {
	switch {
	case errors.Is(err, couponservice.ErrUnknownCoupon),
		errors.Is(err, couponservice.ErrIneligiblePlan),
		errors.Is(err, couponservice.ErrUsedByAccount),
		errors.Is(err, couponservice.ErrUsedFromNetwork):
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		// Ledger read failures stay in the log, not the response body.
		h.logger.Error("coupon evaluation failed",
			zap.String("account_id", accountID),
			zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "failed to evaluate coupon")
	}
}
