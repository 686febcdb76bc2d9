package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   ErrorCode
		status int
	}{
		{NewInvalidRequestError("bad"), ErrCodeInvalidRequest, http.StatusBadRequest},
		{NewMethodNotSupportedError("PUT"), ErrCodeMethodNotSupported, http.StatusMethodNotAllowed},
		{NewNotFoundError("customer"), ErrCodeNotFound, http.StatusNotFound},
		{NewRateLimitError(), ErrCodeRateLimit, http.StatusTooManyRequests},
		{NewInternalError("boom"), ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.status, tt.err.HTTPStatus)
	}
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := WrapError(cause, ErrCodeInternal, "write failed", http.StatusInternalServerError)

	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestGetAppErrorUnwrapsChain(t *testing.T) {
	appErr := NewInvalidRequestError("missing field")
	chained := fmt.Errorf("handling request: %w", appErr)

	got := GetAppError(chained)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeInvalidRequest, got.Code)

	assert.Nil(t, GetAppError(stderrors.New("plain")))
	assert.Nil(t, GetAppError(nil))
}

func TestWithContext(t *testing.T) {
	err := NewInternalError("boom").WithContext("session", "abc123")
	assert.Equal(t, "abc123", err.Context["session"])
}
