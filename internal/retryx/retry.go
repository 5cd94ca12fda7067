// Package retryx wraps sethvargo/go-retry with the project's retry policy:
// transient failures of the external stores are retried with bounded
// exponential backoff, semantic failures are returned immediately.
package retryx

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/sethvargo/go-retry"
)

const (
	// MaxRetries is the number of additional attempts after the first call.
	MaxRetries = 3

	// BaseDelay is the initial backoff interval; it doubles per attempt.
	BaseDelay = 200 * time.Millisecond
)

// Do runs op, retrying it while it fails with a transient error.
// Retrying semantic errors (NotFound, wrong password, oversize payload, ...)
// is never correct, so anything not classified as transient is returned
// to the caller as-is.
func Do(ctx context.Context, op func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(MaxRetries, retry.NewExponential(BaseDelay))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && Transient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// Transient reports whether err looks like a temporary infrastructure
// failure: a 5xx/429 response, a throttling error code, or a network timeout.
func Transient(err error) bool {
	if err == nil {
		return false
	}

	var rerr *smithyhttp.ResponseError
	if errors.As(err, &rerr) {
		code := rerr.HTTPStatusCode()
		return code >= 500 || code == 429
	}

	var aerr smithy.APIError
	if errors.As(err, &aerr) {
		switch aerr.ErrorCode() {
		case "ThrottlingException",
			"ProvisionedThroughputExceededException",
			"RequestTimeout",
			"SlowDown",
			"ServiceUnavailable",
			"InternalError":
			return true
		}
		return false
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}

	return errors.Is(err, io.ErrUnexpectedEOF)
}
