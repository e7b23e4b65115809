package publish

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// DefaultAttempts is the number of upload attempts made per file.
const DefaultAttempts = 3

const retryBase = 500 * time.Millisecond

// Pre-compiled pattern for classifying upload errors as transient. Backends
// wrap their errors differently, so the match runs on the message text.
var reTransient = regexp.MustCompile(
	`(?i)connection reset|broken pipe|i/o timeout|TLS handshake timeout|` +
		`unexpected EOF|connection refused|` +
		`\b(429|500|502|503|504)\b|` +
		`SlowDown|RequestTimeout|InternalError|ServiceUnavailable|` +
		`rateLimitExceeded|backendError`)

// IsTransient reports whether err looks like a failure worth retrying.
// Context cancellation never is.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return reTransient.MatchString(err.Error())
}

// retrying wraps a Publisher and retries transient failures with
// exponential backoff.
type retrying struct {
	Publisher
	maxAttempts int
	base        time.Duration
	onRetry     func(attempt int, err error)
}

// WithRetry returns p wrapped so that transient Publish errors are retried
// up to attempts times in total. onRetry, when non-nil, is called before
// each retry with the failed attempt number.
func WithRetry(p Publisher, attempts int, onRetry func(attempt int, err error)) Publisher {
	if attempts < 1 {
		attempts = 1
	}
	return &retrying{Publisher: p, maxAttempts: attempts, base: retryBase, onRetry: onRetry}
}

func (r *retrying) Publish(ctx context.Context, localPath string) (string, error) {
	for attempt := 1; ; attempt++ {
		dest, err := r.Publisher.Publish(ctx, localPath)
		if err == nil {
			return dest, nil
		}
		if attempt >= r.maxAttempts || !IsTransient(err) {
			return "", err
		}
		if r.onRetry != nil {
			r.onRetry(attempt, err)
		}
		t := time.NewTimer(r.base << (attempt - 1))
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
}
