package http

import (
	"net/http"

	"go.uber.org/zap"

	"optihub/internal/api/httpjson"
	"optihub/internal/fraud/service"
	"optihub/pkg/middleware"
)

type Handler struct {
	Service *service.Service
	logger  *zap.Logger
}

func NewHandler(s *service.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: s, logger: logger}
}

// CheckIpRestriction reports how many accounts share the caller's
// network origin. Advisory: detector failures degrade to not-blocked
// instead of failing the request.
func (h *Handler) CheckIpRestriction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusUnauthorized, "missing account identity")
		return
	}

	claimed := r.URL.Query().Get("user_id")
	if claimed == "" {
		httpjson.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if claimed != accountID {
		httpjson.WriteError(w, http.StatusBadRequest, "user does not match credential")
		return
	}

	origin := middleware.ClientOrigin(r.Context())

	accounts, err := h.Service.AccountsSeenFrom(r.Context(), origin)
	if err != nil {
		h.logger.Error("ip restriction lookup failed",
			zap.String("account_id", accountID),
			zap.String("network_origin", origin),
			zap.Error(err))
		httpjson.Write(w, http.StatusOK, map[string]interface{}{
			"blocked":       false,
			"account_count": 0,
		})
		return
	}

	check := h.Service.FlagIfExcessive(r.Context(), accountID, origin, accounts)

	resp := map[string]interface{}{
		"blocked":       check.Blocked,
		"account_count": check.AccountCount,
	}
	if check.Reason != "" {
		resp["reason"] = check.Reason
	}

	httpjson.Write(w, http.StatusOK, resp)
}
