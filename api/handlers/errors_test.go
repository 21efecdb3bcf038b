package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"otakubantu-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedInMsg  string
	}{
		{
			name:           "ValidationError returns 400",
			input:          &errors.ValidationError{Field: "q", Message: "q is required"},
			expectedStatus: 400,
			expectedInMsg:  "q is required",
		},
		{
			name:           "wrapped ValidationError returns 400",
			input:          fmt.Errorf("context: %w", &errors.ValidationError{Field: "id", Message: "id is required"}),
			expectedStatus: 400,
			expectedInMsg:  "id is required",
		},
		{
			name:           "deadline returns 503",
			input:          context.DeadlineExceeded,
			expectedStatus: 503,
			expectedInMsg:  "cancelled",
		},
		{
			name:           "cancellation returns 503",
			input:          fmt.Errorf("wrapped: %w", context.Canceled),
			expectedStatus: 503,
			expectedInMsg:  "cancelled",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("some unknown error"),
			expectedStatus: 500,
			expectedInMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toHumaError(tt.input)

			humaErr, ok := result.(*huma.ErrorModel)
			require.True(t, ok, "Expected huma.ErrorModel")
			assert.Equal(t, tt.expectedStatus, humaErr.Status)
			assert.Contains(t, humaErr.Detail, tt.expectedInMsg)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}

func TestToHumaError_RateLimitCarriesRetryAfter(t *testing.T) {
	err := toHumaError(&errors.RateLimitError{ClientID: "1.2.3.4", Limit: 100, RetryAfter: 90500 * time.Millisecond})

	var statusErr huma.StatusError
	require.True(t, stderrors.As(err, &statusErr))
	assert.Equal(t, 429, statusErr.GetStatus())

	var headersErr huma.HeadersError
	require.True(t, stderrors.As(err, &headersErr))
	assert.Equal(t, "91", headersErr.GetHeaders().Get("Retry-After"))
	assert.Equal(t, "100", headersErr.GetHeaders().Get("X-RateLimit-Limit"))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 15*60, retryAfterSeconds(15*time.Minute))
}
