package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrCodeForbidden, http.StatusForbidden},
		{"token expired", ErrCodeTokenExpired, http.StatusUnauthorized},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"invalid input", ErrCodeInvalidInput, http.StatusBadRequest},
		{"insufficient quota", ErrCodeInsufficientQuota, http.StatusUnprocessableEntity},
		{"policy violation", ErrCodePolicyViolation, http.StatusForbidden},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown code falls back to 500", "ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected string
	}{
		{"couple not found", "COUPLE_NOT_FOUND", ErrCodeNotFound},
		{"account not found", "ACCOUNT_NOT_FOUND", ErrCodeNotFound},
		{"transaction not found", "TRANSACTION_NOT_FOUND", ErrCodeNotFound},
		{"template not found", "TEMPLATE_NOT_FOUND", ErrCodeNotFound},
		{"policy violation", "POLICY_VIOLATION", ErrCodePolicyViolation},
		{"insufficient free spending", "INSUFFICIENT_FREE_SPENDING", ErrCodeInsufficientQuota},
		{"user not in couple", "USER_NOT_IN_COUPLE", ErrCodeForbidden},
		{"invalid amount via prefix", "INVALID_AMOUNT", ErrCodeInvalidInput},
		{"invalid scope via prefix", "INVALID_SCOPE", ErrCodeInvalidInput},
		{"invalid reset day via prefix", "INVALID_RESET_DAY", ErrCodeInvalidInput},
		{"tenant context not set", "TENANT_CONTEXT_NOT_SET", ErrCodeInternal},
		{"already standardized", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.domain))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Couple not found", "req-123")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Couple not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "reset_day", Message: "must be between 1 and 31"},
		{Field: "amount", Message: "must be positive"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "reset_day", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewSuccessResponseWithMetaDefaultsPagination(t *testing.T) {
	resp := NewSuccessResponseWithMeta(nil, 5, 0, 0)

	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}
