package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/domain/core/entities"
	"lexmatter/pkg/auth"
)

const userRecordInterval = 5 * time.Minute

// RecordUser upserts the caller's profile from verified token claims so
// activity rows reference a known user. Each user is written at most once
// per interval; failures never block the request.
func RecordUser(users ports.UserRepository, logger *zap.Logger) func(next http.Handler) http.Handler {
	var lastWritten sync.Map // userID -> time.Time

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				if prev, ok := lastWritten.Load(user.UserID); !ok || time.Since(prev.(time.Time)) > userRecordInterval {
					lastWritten.Store(user.UserID, time.Now())
					go upsertProfile(users, user, logger)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func upsertProfile(users ports.UserRepository, user *auth.UserContext, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile, err := entities.NewUser(user.UserID, user.Email, user.Name, user.Roles)
	if err != nil {
		logger.Warn("Skipping user profile write", zap.String("userID", user.UserID), zap.Error(err))
		return
	}
	if err := users.Save(ctx, profile); err != nil {
		logger.Warn("Failed to record user profile", zap.String("userID", user.UserID), zap.Error(err))
	}
}
