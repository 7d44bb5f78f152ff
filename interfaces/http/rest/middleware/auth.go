package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"lexmatter/pkg/auth"
)

// Authenticate validates bearer tokens and attaches the authenticated user
// to the request context. Requests pre-authorized by the API Gateway JWT
// authorizer pass through on trusted headers instead of re-validating.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(100)
	userLimiter := auth.NewUserRateLimiter(200)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			allowed, _ := ipLimiter.Allow(r.Context(), clientIP)
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			user, err := resolveUser(r, validator)
			if err != nil {
				logger.Warn("Authentication failed",
					zap.Error(err),
					zap.String("ip", clientIP),
					zap.String("path", r.URL.Path),
				)
				respondUnauthorized(w, "Invalid or missing credentials")
				return
			}

			allowed, _ = userLimiter.Allow(r.Context(), user.UserID)
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			ctx := auth.WithUserContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveUser derives the caller identity either from gateway-verified
// headers or by validating the bearer token locally.
func resolveUser(r *http.Request, validator *auth.JWTValidator) (*auth.UserContext, error) {
	if r.Header.Get("X-API-Gateway-Authorized") == "true" {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			return nil, auth.ErrMissingGatewayContext
		}
		roles := []string{"authenticated"}
		if h := r.Header.Get("X-User-Roles"); h != "" {
			roles = strings.Split(h, ",")
		}
		return &auth.UserContext{
			UserID: userID,
			Email:  r.Header.Get("X-User-Email"),
			Roles:  roles,
		}, nil
	}

	token := extractToken(r)
	if token == "" {
		return nil, auth.ErrMissingToken
	}

	claims, err := validator.Validate(token)
	if err != nil {
		return nil, err
	}

	return &auth.UserContext{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Roles:  claims.Roles,
	}, nil
}

// RequireRole rejects requests whose authenticated user holds none of the
// given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				respondUnauthorized(w, "Unauthorized")
				return
			}

			for _, required := range roles {
				for _, have := range user.Roles {
					if have == required {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			respondWithError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

// extractToken pulls the bearer token from the Authorization header or the
// auth cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}

	return ""
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    code,
	})
}
