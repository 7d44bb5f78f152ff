package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_CloneOnWrite(t *testing.T) {
	// With* helpers must never mutate the shared sentinel.
	derived := ErrDocumentCheckedOut.
		WithDetail("checked_out_by", "user-2").
		WithCause(errors.New("underlying"))

	assert.Empty(t, ErrDocumentCheckedOut.Details)
	assert.Nil(t, ErrDocumentCheckedOut.Cause)

	assert.Equal(t, "user-2", derived.Details["checked_out_by"])
	assert.NotNil(t, derived.Cause)

	// The derived error still matches the sentinel.
	assert.True(t, errors.Is(derived, ErrDocumentCheckedOut))
}

func TestDomainError_StatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrMatterNotFound.StatusCode)
	assert.Equal(t, http.StatusConflict, ErrDuplicateFileName.StatusCode)
	assert.Equal(t, http.StatusUnprocessableEntity, ErrMatterArchived.StatusCode)
	assert.Equal(t, http.StatusForbidden, ErrUserNotAuthorized.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, ErrRateLimitExceeded.StatusCode)
}

func TestDomainError_Retryable(t *testing.T) {
	assert.True(t, ErrTransferLocked.Retryable)
	assert.True(t, ErrConcurrentModification.Retryable)
	assert.False(t, ErrMatterNotFound.Retryable)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrMatterNotFound))
	assert.True(t, IsNotFound(NewNotFoundError("document")))
	assert.True(t, IsNotFound(fmt.Errorf("loading: %w", ErrDocumentNotFound)))
	assert.False(t, IsNotFound(ErrMatterArchived))
	assert.False(t, IsNotFound(errors.New("something else")))
	assert.False(t, IsNotFound(nil))
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("bad input")))
	assert.True(t, IsConflict(NewConflictError("taken")))
	assert.True(t, IsForbidden(NewForbiddenError("no")))
	assert.False(t, IsConflict(NewValidationError("bad input")))
}

func TestHTTPStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusOf(ErrMatterNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatusOf(NewConflictError("taken")))
	assert.Equal(t, http.StatusNotFound, HTTPStatusOf(fmt.Errorf("wrapped: %w", ErrDocumentNotFound)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusOf(errors.New("boom")))

	v := NewValidationErrors()
	v.Add("title", "required")
	assert.Equal(t, http.StatusBadRequest, HTTPStatusOf(v))
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.False(t, v.HasErrors())

	v.Add("title", "title is required")
	v.Add("title", "title too short")
	v.Add("number", "number is required")
	v.AddError(ErrMatterTitleRequired)

	require.True(t, v.HasErrors())
	assert.Contains(t, v.Error(), "title is required")

	byField := v.ToMap()
	assert.Len(t, byField["title"], 2)
	assert.Len(t, byField["number"], 1)
	// Errors without a field detail group under "general".
	assert.Len(t, byField["general"], 1)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("query", cause)

	assert.True(t, errors.Is(err, cause))
}
