package http

import (
	"net/http"

	"go.uber.org/zap"

	"optihub/internal/api/httpjson"
	"optihub/internal/subscription"
	"optihub/internal/subscription/service"
	"optihub/pkg/middleware"
)

type Handler struct {
	Service *service.Service
	logger  *zap.Logger
}

func NewHandler(s *service.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: s, logger: logger}
}

// GetSubscription returns the caller's latest subscription with its
// status evaluated against the clock.
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusUnauthorized, "missing account identity")
		return
	}

	sub, err := h.Service.Current(r.Context(), accountID)
	if err != nil {
		h.logger.Error("subscription lookup failed",
			zap.String("account_id", accountID),
			zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "failed to load subscription")
		return
	}

	var tx *subscription.PaymentTransaction
	if sub != nil {
		// Best effort: the subscription is the answer, its billing
		// record is detail.
		tx, err = h.Service.Transaction(r.Context(), sub.ID)
		if err != nil {
			h.logger.Error("transaction lookup failed",
				zap.String("subscription_id", sub.ID),
				zap.Error(err))
		}
	}

	httpjson.Write(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"subscription": sub, // null when the account never subscribed
		"transaction":  tx,
	})
}
