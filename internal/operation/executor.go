// Package operation runs store mutations inside the user-visible bracket:
// a pending notification while the work runs, then exactly one success or
// error notification after the pending one is dismissed.
package operation

import (
	"context"
	"time"
)

// Executor runs fn after the operation's simulated latency. Production uses
// Simulated so the dashboard behaves like it is talking to a backend; tests
// use Immediate.
type Executor interface {
	Execute(ctx context.Context, latency time.Duration, fn func(context.Context) error) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, latency time.Duration, fn func(context.Context) error) error

func (f ExecutorFunc) Execute(ctx context.Context, latency time.Duration, fn func(context.Context) error) error {
	return f(ctx, latency, fn)
}

// Immediate ignores latency.
func Immediate() Executor {
	return ExecutorFunc(func(ctx context.Context, _ time.Duration, fn func(context.Context) error) error {
		return fn(ctx)
	})
}

// Simulated waits for latency, or until ctx is done, before running fn.
func Simulated() Executor {
	return ExecutorFunc(func(ctx context.Context, latency time.Duration, fn func(context.Context) error) error {
		if latency <= 0 {
			return fn(ctx)
		}
		t := time.NewTimer(latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		return fn(ctx)
	})
}

// Latencies of the simulated backend, per operation.
const (
	LatencyCreate     = time.Second
	LatencyUpdate     = 800 * time.Millisecond
	LatencyDelete     = 600 * time.Millisecond
	LatencyGenerate   = 2 * time.Second
	LatencyExport     = 1500 * time.Millisecond
	LatencyRefresh    = 1500 * time.Millisecond
	LatencyProfile    = time.Second
	LatencyPassword   = 1200 * time.Millisecond
	LatencyUpload     = 1500 * time.Millisecond
	LatencyDataExport = 2 * time.Second
	LatencyAccount    = 3 * time.Second
)
