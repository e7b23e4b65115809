package publish

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type flakyPublisher struct {
	errs  []error // returned in order; nil once exhausted
	calls int
}

func (f *flakyPublisher) Publish(_ context.Context, localPath string) (string, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return "", f.errs[f.calls-1]
	}
	return "mem://" + localPath, nil
}

func (f *flakyPublisher) Close() error { return nil }

func newRetrying(p Publisher, attempts int, onRetry func(int, error)) *retrying {
	r := WithRetry(p, attempts, onRetry).(*retrying)
	r.base = 0
	return r
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("read tcp 10.0.0.1:443: connection reset by peer"), true},
		{errors.New("googleapi: Error 503: backendError"), true},
		{errors.New("operation error S3: PutObject, https response error StatusCode: 500, api error InternalError"), true},
		{errors.New("api error SlowDown: Please reduce your request rate"), true},
		{errors.New("googleapi: Error 403: forbidden"), false},
		{errors.New("open /tmp/x.tif: no such file or directory"), false},
		{fmt.Errorf("upload: %w", context.Canceled), false},
		{fmt.Errorf("i/o timeout: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestWithRetry_RecoversFromTransient(t *testing.T) {
	f := &flakyPublisher{errs: []error{
		errors.New("503 Service Unavailable"),
		errors.New("connection reset by peer"),
	}}
	var retried []int
	r := newRetrying(f, 3, func(attempt int, err error) { retried = append(retried, attempt) })

	dest, err := r.Publish(context.Background(), "a.tif")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if dest != "mem://a.tif" {
		t.Errorf("dest = %q", dest)
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3", f.calls)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Errorf("onRetry attempts = %v, want [1 2]", retried)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	transient := errors.New("503 Service Unavailable")
	f := &flakyPublisher{errs: []error{transient, transient, transient, transient}}
	r := newRetrying(f, 3, nil)

	if _, err := r.Publish(context.Background(), "a.tif"); !errors.Is(err, transient) {
		t.Fatalf("error = %v, want the last transient error", err)
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3", f.calls)
	}
}

func TestWithRetry_PermanentErrorNotRetried(t *testing.T) {
	perm := errors.New("403 forbidden")
	f := &flakyPublisher{errs: []error{perm}}
	r := newRetrying(f, 3, nil)

	if _, err := r.Publish(context.Background(), "a.tif"); !errors.Is(err, perm) {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestWithRetry_CanceledDuringBackoff(t *testing.T) {
	f := &flakyPublisher{errs: []error{errors.New("503"), errors.New("503")}}
	r := WithRetry(f, 3, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Publish(ctx, "a.tif"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestWithRetry_MinimumOneAttempt(t *testing.T) {
	f := &flakyPublisher{errs: []error{errors.New("503")}}
	r := newRetrying(f, 0, nil)
	if _, err := r.Publish(context.Background(), "a.tif"); err == nil {
		t.Error("single attempt should surface the error")
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}
