package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const OriginKey contextKey = "network_origin"

// NetworkOrigin derives the client's network origin from forwarded-IP
// headers and stores it on the context. The headers are client
// controllable: the value is an abuse heuristic, never an identity.
func NetworkOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), OriginKey, originFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientOrigin returns the origin set by NetworkOrigin.
func ClientOrigin(ctx context.Context) string {
	origin, _ := ctx.Value(OriginKey).(string)
	return origin
}

func originFromRequest(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// first hop only
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
