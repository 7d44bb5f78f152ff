package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexmatter/domain/core/entities"
	"lexmatter/pkg/auth"
	pkgerrors "lexmatter/pkg/errors"
)

type recordingUserRepo struct {
	saved chan *entities.User
}

func newRecordingUserRepo() *recordingUserRepo {
	return &recordingUserRepo{saved: make(chan *entities.User, 8)}
}

func (r *recordingUserRepo) Save(_ context.Context, user *entities.User) error {
	r.saved <- user
	return nil
}

func (r *recordingUserRepo) GetByID(_ context.Context, userID string) (*entities.User, error) {
	return nil, pkgerrors.ErrUserNotFound.WithDetail("userId", userID)
}

func (r *recordingUserRepo) waitForSave(t *testing.T) *entities.User {
	t.Helper()
	select {
	case user := <-r.saved:
		return user
	case <-time.After(2 * time.Second):
		t.Fatal("expected a profile write")
		return nil
	}
}

func recordUserRequest(t *testing.T, handler http.Handler, user *auth.UserContext) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/matters", nil)
	if user != nil {
		req = req.WithContext(auth.WithUserContext(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRecordUser_WritesProfileOnFirstSight(t *testing.T) {
	repo := newRecordingUserRepo()
	handler := RecordUser(repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := recordUserRequest(t, handler, &auth.UserContext{
		UserID: "user-1",
		Email:  "counsel@example.com",
		Name:   "Counsel",
		Roles:  []string{"attorney"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	saved := repo.waitForSave(t)
	assert.Equal(t, "user-1", saved.ID())
	assert.Equal(t, "counsel@example.com", saved.Email())
	assert.Equal(t, "Counsel", saved.Name())
	assert.True(t, saved.HasRole("attorney"))
}

func TestRecordUser_ThrottlesRepeatRequests(t *testing.T) {
	repo := newRecordingUserRepo()
	handler := RecordUser(repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	user := &auth.UserContext{UserID: "user-2", Email: "user2@example.com"}

	recordUserRequest(t, handler, user)
	repo.waitForSave(t)

	recordUserRequest(t, handler, user)
	recordUserRequest(t, handler, user)

	select {
	case <-repo.saved:
		t.Fatal("expected repeat requests within the interval to skip the write")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRecordUser_AnonymousRequestPassesThrough(t *testing.T) {
	repo := newRecordingUserRepo()
	handler := RecordUser(repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := recordUserRequest(t, handler, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	select {
	case <-repo.saved:
		t.Fatal("expected no profile write without an authenticated user")
	case <-time.After(50 * time.Millisecond):
	}
}
