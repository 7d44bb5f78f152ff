package errors

import (
	"fmt"
	"strings"
	"time"
)

// DomainErrorType represents the category of domain error
type DomainErrorType string

const (
	// DomainValidationError indicates input validation failure
	DomainValidationError DomainErrorType = "VALIDATION_ERROR"

	// DomainBusinessRuleError indicates a business rule violation
	DomainBusinessRuleError DomainErrorType = "BUSINESS_RULE_ERROR"

	// DomainNotFoundError indicates a resource was not found
	DomainNotFoundError DomainErrorType = "NOT_FOUND"

	// DomainConflictError indicates a conflict with existing state
	DomainConflictError DomainErrorType = "CONFLICT"

	// DomainInfrastructureError indicates an infrastructure-level failure
	DomainInfrastructureError DomainErrorType = "INFRASTRUCTURE_ERROR"

	// DomainAuthorizationError indicates insufficient permissions
	DomainAuthorizationError DomainErrorType = "AUTHORIZATION_ERROR"

	// DomainAuthenticationError indicates authentication failure
	DomainAuthenticationError DomainErrorType = "AUTHENTICATION_ERROR"

	// DomainRateLimitError indicates rate limit exceeded
	DomainRateLimitError DomainErrorType = "RATE_LIMIT_ERROR"

	// DomainTimeoutError indicates operation timeout
	DomainTimeoutError DomainErrorType = "TIMEOUT_ERROR"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type       DomainErrorType        `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		Retryable:  false,
		StatusCode: domainErrorTypeToStatusCode(errorType),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// clone returns a copy so the predefined errors are never mutated
func (e *DomainError) clone() *DomainError {
	details := make(map[string]interface{}, len(e.Details))
	for k, v := range e.Details {
		details[k] = v
	}
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy of the error with a cause attached
func (e *DomainError) WithCause(cause error) *DomainError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithDetail returns a copy of the error with a detail added
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	c := e.clone()
	c.Details[key] = value
	return c
}

// WithDetails returns a copy of the error with multiple details added
func (e *DomainError) WithDetails(details map[string]interface{}) *DomainError {
	c := e.clone()
	for k, v := range details {
		c.Details[k] = v
	}
	return c
}

// WithRetryable returns a copy of the error with retryability overridden
func (e *DomainError) WithRetryable(retryable bool) *DomainError {
	c := e.clone()
	c.Retryable = retryable
	return c
}

// WithStatusCode returns a copy of the error with a custom HTTP status code
func (e *DomainError) WithStatusCode(code int) *DomainError {
	c := e.clone()
	c.StatusCode = code
	return c
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// domainErrorTypeToStatusCode maps error types to HTTP status codes
func domainErrorTypeToStatusCode(errorType DomainErrorType) int {
	switch errorType {
	case DomainValidationError:
		return 400 // Bad Request
	case DomainBusinessRuleError:
		return 422 // Unprocessable Entity
	case DomainNotFoundError:
		return 404 // Not Found
	case DomainConflictError:
		return 409 // Conflict
	case DomainAuthenticationError:
		return 401 // Unauthorized
	case DomainAuthorizationError:
		return 403 // Forbidden
	case DomainRateLimitError:
		return 429 // Too Many Requests
	case DomainTimeoutError:
		return 504 // Gateway Timeout
	case DomainInfrastructureError:
		return 500 // Internal Server Error
	default:
		return 500 // Internal Server Error
	}
}

// Common domain errors - these are pre-defined errors that can be reused

var (
	// Matter errors
	ErrMatterNotFound = NewDomainError(
		DomainNotFoundError,
		"MATTER_NOT_FOUND",
		"The requested matter does not exist",
	)

	ErrMatterTitleRequired = NewDomainError(
		DomainValidationError,
		"MATTER_TITLE_REQUIRED",
		"Matter title is required",
	)

	ErrMatterArchived = NewDomainError(
		DomainBusinessRuleError,
		"MATTER_ARCHIVED",
		"The matter is archived and cannot be modified",
	)

	ErrMatterDeleted = NewDomainError(
		DomainBusinessRuleError,
		"MATTER_DELETED",
		"The matter is deleted and cannot be modified",
	)

	ErrDuplicateMatterNumber = NewDomainError(
		DomainConflictError,
		"DUPLICATE_MATTER_NUMBER",
		"A matter with this number already exists",
	)

	ErrMatterDocumentLimit = NewDomainError(
		DomainBusinessRuleError,
		"MATTER_DOCUMENT_LIMIT",
		"Maximum number of documents in matter exceeded",
	)

	// Document errors
	ErrDocumentNotFound = NewDomainError(
		DomainNotFoundError,
		"DOCUMENT_NOT_FOUND",
		"The requested document does not exist",
	)

	ErrDocumentDeleted = NewDomainError(
		DomainBusinessRuleError,
		"DOCUMENT_DELETED",
		"The document is deleted and cannot be modified",
	)

	ErrDocumentCheckedOut = NewDomainError(
		DomainConflictError,
		"DOCUMENT_CHECKED_OUT",
		"The document is checked out by another user",
	)

	ErrDocumentNotCheckedOut = NewDomainError(
		DomainConflictError,
		"DOCUMENT_NOT_CHECKED_OUT",
		"The document is not checked out",
	)

	ErrDuplicateFileName = NewDomainError(
		DomainConflictError,
		"DUPLICATE_FILE_NAME",
		"A document with this file name already exists in the matter",
	)

	// Revision errors
	ErrRevisionNotFound = NewDomainError(
		DomainNotFoundError,
		"REVISION_NOT_FOUND",
		"The requested revision does not exist",
	)

	// Transfer errors
	ErrTransferSameMatter = NewDomainError(
		DomainBusinessRuleError,
		"TRANSFER_SAME_MATTER",
		"Source and destination matters must differ",
	)

	ErrTransferDocumentMismatch = NewDomainError(
		DomainBusinessRuleError,
		"TRANSFER_DOCUMENT_MISMATCH",
		"The document is not filed under the source matter",
	)

	ErrTransferLocked = NewDomainError(
		DomainConflictError,
		"TRANSFER_LOCKED",
		"Another transfer for this document is in progress",
	).WithRetryable(true)

	// User errors
	ErrUserNotFound = NewDomainError(
		DomainNotFoundError,
		"USER_NOT_FOUND",
		"The requested user does not exist",
	)

	ErrUserNotAuthorized = NewDomainError(
		DomainAuthorizationError,
		"USER_NOT_AUTHORIZED",
		"User is not authorized to perform this action",
	)

	// Transaction errors
	ErrConcurrentModification = NewDomainError(
		DomainConflictError,
		"CONCURRENT_MODIFICATION",
		"The resource was modified by another process",
	).WithRetryable(true)

	ErrTransactionFailed = NewDomainError(
		DomainInfrastructureError,
		"TRANSACTION_FAILED",
		"Database transaction failed",
	).WithRetryable(true)

	// Rate limiting errors
	ErrRateLimitExceeded = NewDomainError(
		DomainRateLimitError,
		"RATE_LIMIT_EXCEEDED",
		"Too many requests, please try again later",
	).WithRetryable(true)

	// Infrastructure errors
	ErrDatabaseConnection = NewDomainError(
		DomainInfrastructureError,
		"DATABASE_CONNECTION_ERROR",
		"Failed to connect to database",
	).WithRetryable(true)

	ErrEventPublishFailed = NewDomainError(
		DomainInfrastructureError,
		"EVENT_PUBLISH_FAILED",
		"Failed to publish domain event",
	).WithRetryable(true)
)

// ValidationErrors aggregates multiple validation errors
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]*DomainError, 0),
	}
}

// Add adds a validation error
func (v *ValidationErrors) Add(field string, message string) {
	err := NewDomainError(DomainValidationError, "FIELD_VALIDATION_ERROR", message).
		WithDetail("field", field)
	v.Errors = append(v.Errors, err)
}

// AddError adds a pre-existing domain error
func (v *ValidationErrors) AddError(err *DomainError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("Validation failed: %s", strings.Join(messages, "; "))
}

// ToMap converts validation errors to a map for JSON serialization
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)

	for _, err := range v.Errors {
		field, ok := err.Details["field"].(string)
		if !ok {
			field = "general"
		}

		if _, exists := result[field]; !exists {
			result[field] = make([]string, 0)
		}
		result[field] = append(result[field], err.Message)
	}

	return result
}

// DomainErrorResponse represents the API error response format for domain errors
type DomainErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      DomainErrorType        `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// NewDomainErrorResponse creates an error response from a domain error
func NewDomainErrorResponse(err *DomainError, requestID string) *DomainErrorResponse {
	return &DomainErrorResponse{
		Error:     true,
		Type:      err.Type,
		Code:      err.Code,
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		RequestID: requestID,
		Timestamp: fmt.Sprintf("%d", timeNow().Unix()),
	}
}

// Helper function for testing (can be mocked)
var timeNow = func() time.Time {
	return time.Now()
}
