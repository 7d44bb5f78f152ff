package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"lexmatter/pkg/auth"
)

// DistributedRateLimit enforces the shared per-caller request budget. State
// lives in DynamoDB so the budget holds across instances; the in-process
// limiters in Authenticate only smooth bursts within one instance.
// Authenticated requests are keyed by user ID, anonymous ones by client IP.
func DistributedRateLimit(limiter *auth.DistributedRateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = user.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// Fail open on limiter errors.
				logger.Warn("Rate limit check failed",
					zap.String("key", key),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
