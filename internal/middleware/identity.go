package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobtrack/jobtrack/internal/auth"
	"github.com/jobtrack/jobtrack/internal/model"
)

// DefaultIdentityHeader carries the caller identity set by the upstream auth proxy.
const DefaultIdentityHeader = "X-User-ID"

// maxIdentityLength bounds the accepted identity string.
const maxIdentityLength = 256

// IdentityConfig holds configuration for the identity middleware.
type IdentityConfig struct {
	Logger *slog.Logger
	Header string
}

// Identity returns a middleware that reads the pre-authenticated caller
// identity from a trusted header and stores it in the request context.
// Requests without an identity are rejected with 401.
func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	header := cfg.Header
	if header == "" {
		header = DefaultIdentityHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(header))

			reason := ""
			switch {
			case userID == "":
				reason = "missing_identity"
			case len(userID) > maxIdentityLength:
				reason = "identity_too_long"
			}

			if reason != "" {
				cfg.Logger.Warn("identity rejected",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Caller identity is required")
				return
			}

			annotateCaller(r.Context(), userID)
			ctx := auth.ContextWithCaller(r.Context(), model.Caller{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
