package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *JWTValidator {
	t.Helper()
	validator, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "test-secret",
		Issuer:        "lexmatter-test",
	})
	require.NoError(t, err)
	return validator
}

func TestNewJWTValidator_Config(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "RS256", SecretKey: "x"})
	assert.Error(t, err)
}

func TestJWTValidator_RoundTrip(t *testing.T) {
	validator := newTestValidator(t)

	token, err := validator.IssueToken("user-1", "user@example.com", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := validator.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.Equal(t, "lexmatter-test", claims.Issuer)
}

func TestJWTValidator_ExpiredToken(t *testing.T) {
	validator := newTestValidator(t)

	token, err := validator.IssueToken("user-1", "user@example.com", nil, -time.Minute)
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.Error(t, err)
}

func TestJWTValidator_WrongSecret(t *testing.T) {
	issuer := newTestValidator(t)
	token, err := issuer.IssueToken("user-1", "user@example.com", nil, time.Hour)
	require.NoError(t, err)

	other, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "different-secret",
		Issuer:        "lexmatter-test",
	})
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTValidator_WrongIssuer(t *testing.T) {
	issuer, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "test-secret",
		Issuer:        "someone-else",
	})
	require.NoError(t, err)
	token, err := issuer.IssueToken("user-1", "user@example.com", nil, time.Hour)
	require.NoError(t, err)

	_, err = newTestValidator(t).Validate(token)
	assert.Error(t, err)
}

func TestJWTValidator_GarbageToken(t *testing.T) {
	_, err := newTestValidator(t).Validate("not.a.token")
	assert.Error(t, err)
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, err := GetUserFromContext(ctx)
	assert.Error(t, err)

	user := &UserContext{UserID: "user-1", Email: "user@example.com", Roles: []string{"attorney"}}
	ctx = WithUserContext(ctx, user)

	got, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}
