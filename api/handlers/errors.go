// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts gateway errors to appropriate HTTP responses

package handlers

import (
	"context"
	stderrors "errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"otakubantu-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors.
// Exhaustion is not an error and never reaches here.
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *errors.RateLimitError
	if stderrors.As(err, &rateErr) {
		headers := http.Header{}
		headers.Set("Retry-After", strconv.Itoa(retryAfterSeconds(rateErr.RetryAfter)))
		headers.Set("X-RateLimit-Limit", strconv.Itoa(rateErr.Limit))
		return huma.ErrorWithHeaders(
			huma.Error429TooManyRequests("Too many requests from this client, please try again later"),
			headers,
		)
	}

	if errors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return huma.Error503ServiceUnavailable("Request cancelled before any source answered")
	}

	return huma.Error500InternalServerError("Internal server error", err)
}

// retryAfterSeconds rounds up so clients never retry inside the window
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
